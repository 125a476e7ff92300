package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusfeedback/internal/config"
)

type fakeTx struct {
	pgx.Tx
	committed, rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTransaction_Commit(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	var sawDeadline bool

	err := WithTransaction(context.Background(), b, func(ctx context.Context, tx pgx.Tx) error {
		_, sawDeadline = ctx.Deadline()
		return nil
	})

	require.NoError(t, err)
	assert.True(t, sawDeadline)
	assert.True(t, b.tx.committed)
	assert.False(t, b.tx.rolledBack)
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	boom := errors.New("boom")

	err := WithTransaction(context.Background(), b, func(context.Context, pgx.Tx) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.True(t, b.tx.rolledBack)
	assert.False(t, b.tx.committed)
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}

	assert.Panics(t, func() {
		_ = WithTransaction(context.Background(), b, func(context.Context, pgx.Tx) error { panic("bad") })
	})
	assert.True(t, b.tx.rolledBack)
}

func TestWithTransaction_BeginError(t *testing.T) {
	b := &fakeBeginner{err: errors.New("no conn")}
	called := false

	err := WithTransaction(context.Background(), b, func(context.Context, pgx.Tx) error {
		called = true
		return nil
	})

	assert.ErrorContains(t, err, "begin transaction")
	assert.False(t, called)
}

func TestPoolConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "5433"
	cfg.Database.User = "feedback"
	cfg.Database.Password = "p@ss:word"
	cfg.Database.DBName = "campusfeedback"
	cfg.Database.MaxOpenConns = 12
	cfg.Database.MaxIdleConns = 3
	cfg.Database.ConnMaxLifetime = "30m"

	pc, err := PoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "p@ss:word", pc.ConnConfig.Password)
	assert.Equal(t, int32(12), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, 30*time.Minute, pc.MaxConnLifetime)
}
