package shared

import "context"

type sessionContextKey struct{}

type inventoryContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithInventory stores the active inventory ID in context.
func ContextWithInventory(ctx context.Context, inventoryID int64) context.Context {
	return context.WithValue(ctx, inventoryContextKey{}, inventoryID)
}

// InventoryFromContext extracts the active inventory ID, zero when unset.
func InventoryFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(inventoryContextKey{}).(int64)
	return id
}
