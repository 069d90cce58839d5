package repositories

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork groups the repositories that share one database handle. Repositories obtained
// inside Transaction run on the transaction, so either every write of fn persists or none does.
type UnitOfWork interface {
	Menus() MenuRepository
	UserTypes() UserTypeRepository
	Assignments() AssignmentRepository
	Transaction(ctx context.Context, fn func(uow UnitOfWork) error) error
}

type unitOfWork struct {
	db          *gorm.DB
	menus       MenuRepository
	userTypes   UserTypeRepository
	assignments AssignmentRepository
}

var _ UnitOfWork = (*unitOfWork)(nil)

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &unitOfWork{
		db:          db,
		menus:       NewMenuRepository(db),
		userTypes:   NewUserTypeRepository(db),
		assignments: NewAssignmentRepository(db),
	}
}

func (u *unitOfWork) Menus() MenuRepository             { return u.menus }
func (u *unitOfWork) UserTypes() UserTypeRepository     { return u.userTypes }
func (u *unitOfWork) Assignments() AssignmentRepository { return u.assignments }

// Transaction commits when fn returns nil and rolls back otherwise.
func (u *unitOfWork) Transaction(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUnitOfWork(tx))
	})
}
