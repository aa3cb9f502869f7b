package txmanager

import "context"

// Noop менеджер транзакций для хранилищ без транзакций (in-memory)
// Атомарность в этом режиме обеспечивается блокировками на уровне usecase
type Noop struct{}

func (Noop) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (Noop) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (Noop) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
