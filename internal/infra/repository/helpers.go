package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cajadomain "github.com/BruksfildServices01/barberia/internal/domain/caja"
	"github.com/BruksfildServices01/barberia/internal/models"
)

// notFound troca o erro do gorm pelo sentinel do domínio chamador.
func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// --------------------------------------------------
// Caja (compartilhado por agenda, caja e pagamentos)
// --------------------------------------------------

func cajaClosed(ctx context.Context, db *gorm.DB, barbershopID, branchID uint, day string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.CashClosing{}).
		Where("barbershop_id = ? AND branch_id = ? AND day = ?", barbershopID, branchID, day).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func createCashMovement(ctx context.Context, db *gorm.DB, m *models.CashMovement) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

func getBarbershop(ctx context.Context, db *gorm.DB, id uint) (*models.Barbershop, error) {
	var shop models.Barbershop
	if err := db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// lockCaja trava a sucursal (ou a barbearia, com branchID 0) até o fim da
// transação. Lançamentos, estornos e fechamentos da mesma caja passam por
// aqui antes de consultar o fechamento do dia.
func lockCaja(ctx context.Context, db *gorm.DB, barbershopID, branchID uint) error {
	q := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id")

	if branchID == 0 {
		return q.Where("id = ?", barbershopID).First(&models.Barbershop{}).Error
	}
	return q.Where("id = ? AND barbershop_id = ?", branchID, barbershopID).
		First(&models.Branch{}).Error
}

// hasIncomeForAppointment diz se o turno já tem uma entrada não estornada.
func hasIncomeForAppointment(ctx context.Context, db *gorm.DB, barbershopID, appointmentID uint) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.CashMovement{}).
		Where("barbershop_id = ? AND appointment_id = ? AND type = ? AND voided_at IS NULL",
			barbershopID, appointmentID, cajadomain.TypeIncome).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func getBranch(ctx context.Context, db *gorm.DB, barbershopID, id uint) (*models.Branch, error) {
	var b models.Branch
	if err := db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}
