package repository

import "context"

// Store даёт доступ ко всем репозиториям и единице работы.
// Внутри WithinTx все изменения фиксируются вместе или откатываются.
type Store interface {
	Users() UserRepository
	Profiles() ProfileRepository
	Projects() ProjectRepository
	Proposals() ProposalRepository
	Escrows() EscrowRepository
	Notifications() NotificationRepository
	Catalog() CatalogRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
