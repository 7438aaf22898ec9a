// Package metrics define los contadores Prometheus del núcleo de farmacia.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispensesTotal cuenta dispensaciones exitosas.
	DispensesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "farmacia",
		Name:      "dispenses_total",
		Help:      "Dispensaciones completadas.",
	})

	// DispensedUnits cuenta unidades entregadas por dispensación.
	DispensedUnits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "farmacia",
		Name:      "dispensed_units_total",
		Help:      "Unidades entregadas en dispensaciones.",
	})

	// WriteOffUnits cuenta unidades dadas de baja (retiro de lote o
	// eliminación de catálogo).
	WriteOffUnits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "farmacia",
		Name:      "write_off_units_total",
		Help:      "Unidades dadas de baja fuera de dispensación.",
	})

	// InsufficientStock cuenta solicitudes rechazadas por stock insuficiente.
	InsufficientStock = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "farmacia",
		Name:      "insufficient_stock_total",
		Help:      "Dispensaciones rechazadas por falta de stock.",
	})
)
