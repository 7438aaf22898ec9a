package repository

import "github.com/clinicore/farmacia-api/internal/domain/entity"

// ChargeRepository es el puerto de escritura hacia el colaborador de
// facturación/cuenta del paciente. La responsabilidad del núcleo termina al
// emitir la línea; aplicarla al saldo es trabajo del colaborador.
type ChargeRepository interface {
	Create(charge *entity.ChargeLine) error
	ListByPatient(patientRef string, limit, offset int) ([]*entity.ChargeLine, error)
}
