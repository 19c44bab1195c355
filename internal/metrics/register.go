// Package metrics содержит Prometheus-метрики rhrh.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// register регистрирует collector; при повторной регистрации возвращает уже
// зарегистрированный экземпляр, чтобы несколько сервисов в одном процессе
// (и тесты) могли делить DefaultRegisterer.
func register[C prometheus.Collector](registerer prometheus.Registerer, name string, collector C) C {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(C)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", name))
			}
			return existing
		}
		panic(fmt.Sprintf("register collector %q: %v", name, err))
	}
	return collector
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
