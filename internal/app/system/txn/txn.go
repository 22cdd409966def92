// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Multi-document transactions require a replica set (or mongos). Local
// dev and some managed deployments run standalone, where starting a
// transaction fails with one of a few command errors. Callers use
// IsNotSupported to detect that and fall back to single-document atomic
// updates.

// Server command codes returned when transactions are unavailable.
//   - 20:  IllegalOperation ("Transaction numbers are only allowed on a replica set member")
//   - 51:  Illegal operation variants
//   - 263: OperationNotSupportedInTransaction
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// keyword pairs that, appearing together in an error string, indicate the
// deployment cannot run transactions at all (as opposed to a transient
// transaction failure, which the driver retries on its own).
var notSupportedPairs = [][2]string{
	{"transaction", "replica set"},
	{"session", "not supported"},
	{"transaction", "session"},
	{"transaction", "illegal operation"},
}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone deployment, old server, or a
// proxy that rejects sessions).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := err.(mongo.CommandError); ok {
		return notSupportedCodes[ce.Code]
	}
	s := strings.ToLower(err.Error())
	for _, p := range notSupportedPairs {
		if strings.Contains(s, p[0]) && strings.Contains(s, p[1]) {
			return true
		}
	}
	return false
}

// WithTransaction runs fn inside a session transaction. The driver
// retries fn on transient transaction errors and retries the commit on
// unknown commit results, so fn must be safe to re-run and must re-read
// any documents it bases decisions on through the session context.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
