package uow

import "context"

type unitKey struct{}

// ContextWithUnitOfWork attaches the command's unit of work to the context.
// The transaction middleware sets it once per dispatch; handlers join that
// unit instead of opening a session of their own.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, unitKey{}, unit)
}

// FromContext returns the dispatch's unit of work, if the transaction
// middleware put one there.
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(unitKey{}).(UnitOfWork)
	return unit, ok
}
