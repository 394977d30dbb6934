package infrastructure

import (
	"raffler/application"
	"raffler/database"
	"raffler/domain/interfaces"
	"raffler/repository"
)

// unitOfWorkFactory wraps the repository factory so every unit of work gets
// a fresh transactional publisher backed by the real event publisher
type unitOfWorkFactory struct {
	repoFactory interface {
		CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork
	}
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a factory producing units of work with
// transactional event publishing
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		repoFactory:    repository.NewUnitOfWorkFactory(db),
		eventPublisher: eventPublisher,
	}
}

// Create creates a new UnitOfWork with a transactional event publisher
func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	transactionalPublisher := NewNATSTransactionalPublisher(f.eventPublisher)
	return f.repoFactory.CreateWithPublisher(transactionalPublisher)
}
