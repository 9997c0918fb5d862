package ota_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"otabot/internal/ota"
)

func TestRealClock_Sleep(t *testing.T) {
	t.Run("returns after the duration", func(t *testing.T) {
		if err := (ota.RealClock{}).Sleep(context.Background(), time.Millisecond); err != nil {
			t.Errorf("Sleep() error = %v", err)
		}
	})

	t.Run("non-positive duration returns at once", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := (ota.RealClock{}).Sleep(ctx, 0); err != nil {
			t.Errorf("Sleep(0) error = %v", err)
		}
	})

	t.Run("cancelled context interrupts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := (ota.RealClock{}).Sleep(ctx, time.Hour)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Sleep() error = %v, want context.Canceled", err)
		}
	})
}
