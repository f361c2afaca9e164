package main

import (
	"context"
	"testing"

	"github.com/ArowuTest/luckydraw-backend/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestImportAttendees_RequiresSharedLock(t *testing.T) {
	cfg := &config.Config{Store: config.StoreMongoDB}

	err := importAttendees(context.Background(), cfg, "e1", "attendees.csv")
	assert.ErrorIs(t, err, errNoSharedLock)
}

func TestImportAttendees_OnlyMongo(t *testing.T) {
	cfg := &config.Config{Store: config.StorePostgres}
	cfg.Redis.Enabled = true

	err := importAttendees(context.Background(), cfg, "e1", "attendees.csv")
	assert.ErrorContains(t, err, "not supported")
}
