// Package httpapi отдаёт JSON API над book.Service.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
	"github.com/vladislavdragonenkov/rhrh/internal/service/book"
	"github.com/vladislavdragonenkov/rhrh/internal/storage/codec"
)

const (
	maxBodyBytes   = 1 << 20
	requestTimeout = 30 * time.Second
)

var errBadRequest = errors.New("bad request")

// Handler обслуживает /v1/*.
type Handler struct {
	svc    *book.Service
	logger *log.Entry
}

// NewHandler создаёт HTTP handler поверх сервиса.
func NewHandler(svc *book.Service, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes возвращает готовый роутер со всеми маршрутами API.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	h.Register(r)
	return r
}

// Register регистрирует маршруты в существующем роутере.
func (h *Handler) Register(r chi.Router) {
	svc := h.svc
	r.Route("/v1", func(r chi.Router) {
		mount(r, h, resource[domain.Person, codec.PersonDTO]{
			path: "/persons", list: svc.ListPersons, lookup: svc.LookupPerson,
			add: svc.AddPerson, edit: svc.EditPerson, setAll: svc.SetPersons, remove: svc.DeletePerson,
			toDTO: codec.PersonFrom, fromDTO: noError(codec.PersonDTO.ToDomain),
		})
		mount(r, h, resource[domain.Customer, codec.CustomerDTO]{
			path: "/customers", list: svc.ListCustomers, lookup: svc.LookupCustomer,
			add: svc.AddCustomer, edit: svc.EditCustomer, setAll: svc.SetCustomers, remove: svc.DeleteCustomer,
			toDTO: codec.CustomerFrom, fromDTO: noError(codec.CustomerDTO.ToDomain),
		})
		mount(r, h, resource[domain.Employee, codec.EmployeeDTO]{
			path: "/employees", list: svc.ListEmployees, lookup: svc.LookupEmployee,
			add: svc.AddEmployee, edit: svc.EditEmployee, setAll: svc.SetEmployees, remove: svc.DeleteEmployee,
			toDTO: codec.EmployeeFrom, fromDTO: codec.EmployeeDTO.ToDomain,
		})
		mount(r, h, resource[domain.Supplier, codec.SupplierDTO]{
			path: "/suppliers", list: svc.ListSuppliers, lookup: svc.LookupSupplier,
			add: svc.AddSupplier, edit: svc.EditSupplier, setAll: svc.SetSuppliers, remove: svc.DeleteSupplier,
			toDTO: codec.SupplierFrom, fromDTO: noError(codec.SupplierDTO.ToDomain),
		})
		mount(r, h, resource[domain.Reservation, codec.ReservationDTO]{
			path: "/reservations", list: svc.ListReservations, lookup: svc.LookupReservation,
			add: svc.AddReservation, edit: svc.EditReservation, setAll: svc.SetReservations, remove: svc.DeleteReservation,
			toDTO: codec.ReservationFrom, fromDTO: noError(codec.ReservationDTO.ToDomain),
		})

		r.Get("/snapshot", h.handleGetSnapshot)
		r.Put("/snapshot", h.handlePutSnapshot)
		r.Get("/describe", h.handleDescribe)
	})
}

func (h *Handler) handleGetSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, codec.FromSnapshot(h.svc.Snapshot()))
}

func (h *Handler) handlePutSnapshot(w http.ResponseWriter, r *http.Request) {
	var dto codec.SnapshotDTO
	if err := decodeBody(w, r, &dto); err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := dto.ToSnapshot()
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := h.svc.Reset(r.Context(), snap); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, codec.FromSnapshot(h.svc.Snapshot()))
}

type describeResponse struct {
	Persons      int    `json:"persons"`
	Customers    int    `json:"customers"`
	Employees    int    `json:"employees"`
	Suppliers    int    `json:"suppliers"`
	Reservations int    `json:"reservations"`
	Summary      string `json:"summary"`
}

func (h *Handler) handleDescribe(w http.ResponseWriter, _ *http.Request) {
	c := h.svc.Counts()
	writeJSON(w, http.StatusOK, describeResponse{
		Persons:      c.Persons,
		Customers:    c.Customers,
		Employees:    c.Employees,
		Suppliers:    c.Suppliers,
		Reservations: c.Reservations,
		Summary:      h.svc.Describe(),
	})
}

// resource описывает CRUD одной коллекции. E это доменный тип, D его JSON-представление.
type resource[E any, D any] struct {
	path    string
	list    func() []E
	lookup  func(key string) (E, error)
	add     func(ctx context.Context, e E) error
	edit    func(ctx context.Context, key string, e E) error
	setAll  func(ctx context.Context, list []E) error
	remove  func(ctx context.Context, key string) error
	toDTO   func(E) D
	fromDTO func(D) (E, error)
}

func mount[E any, D any](r chi.Router, h *Handler, res resource[E, D]) {
	r.Route(res.path, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, mapSlice(res.list(), res.toDTO))
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			e, err := decodeEntity(w, r, res.fromDTO)
			if err == nil {
				err = res.add(r.Context(), e)
			}
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, res.toDTO(e))
		})

		r.Put("/", func(w http.ResponseWriter, r *http.Request) {
			var dtos []D
			if err := decodeBody(w, r, &dtos); err != nil {
				h.writeError(w, r, err)
				return
			}
			// null не очищает коллекцию: для этого нужен явный [].
			if dtos == nil {
				h.writeError(w, r, fmt.Errorf("%w: list body is null: %w", errBadRequest, domain.ErrNilArgument))
				return
			}
			items := make([]E, 0, len(dtos))
			for _, d := range dtos {
				e, err := res.fromDTO(d)
				if err != nil {
					h.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
					return
				}
				items = append(items, e)
			}
			if err := res.setAll(r.Context(), items); err != nil {
				h.writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, mapSlice(res.list(), res.toDTO))
		})

		r.Get("/{key}", func(w http.ResponseWriter, r *http.Request) {
			e, err := res.lookup(keyParam(r))
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, res.toDTO(e))
		})

		r.Put("/{key}", func(w http.ResponseWriter, r *http.Request) {
			e, err := decodeEntity(w, r, res.fromDTO)
			if err == nil {
				err = res.edit(r.Context(), keyParam(r), e)
			}
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, res.toDTO(e))
		})

		r.Delete("/{key}", func(w http.ResponseWriter, r *http.Request) {
			if err := res.remove(r.Context(), keyParam(r)); err != nil {
				h.writeError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

func keyParam(r *http.Request) string {
	raw := chi.URLParam(r, "key")
	if key, err := url.PathUnescape(raw); err == nil {
		return key
	}
	return raw
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

func decodeEntity[E any, D any](w http.ResponseWriter, r *http.Request, fromDTO func(D) (E, error)) (E, error) {
	var dto D
	if err := decodeBody(w, r, &dto); err != nil {
		var zero E
		return zero, err
	}
	e, err := fromDTO(dto)
	if err != nil {
		return e, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return e, nil
}

func noError[D any, E any](fn func(D) E) func(D) (E, error) {
	return func(d D) (E, error) { return fn(d), nil }
}

func mapSlice[E any, D any](items []E, fn func(E) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
