package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherCreate(t *testing.T) {
	store := newFakeStore()
	event := store.addEvent("concert", 1000, 5, true)
	svc := NewVoucherService(fakeVouchers{store}, fakeEvents{store})

	start := time.Now()
	voucher, err := svc.Create(context.Background(), "organizer-1", VoucherCreateInput{
		EventID:         event.ID,
		Code:            "SUMMER10",
		DiscountPercent: 10,
		StartDate:       start,
		EndDate:         start.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER10", voucher.Code)
	assert.Equal(t, event.ID, voucher.EventID)
	assert.NotEmpty(t, voucher.ID)
}

func TestVoucherCreateGeneratesCode(t *testing.T) {
	store := newFakeStore()
	event := store.addEvent("concert", 1000, 5, true)
	svc := NewVoucherService(fakeVouchers{store}, fakeEvents{store})

	start := time.Now()
	voucher, err := svc.Create(context.Background(), "organizer-1", VoucherCreateInput{
		EventID:         event.ID,
		DiscountPercent: 15,
		StartDate:       start,
		EndDate:         start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(voucher.Code, "VCH-"))
	assert.Len(t, voucher.Code, len("VCH-")+8)
}

func TestVoucherCreateValidation(t *testing.T) {
	store := newFakeStore()
	event := store.addEvent("concert", 1000, 5, true)
	svc := NewVoucherService(fakeVouchers{store}, fakeEvents{store})
	start := time.Now()

	_, err := svc.Create(context.Background(), "organizer-1", VoucherCreateInput{
		EventID:         event.ID,
		DiscountPercent: 0,
		StartDate:       start,
		EndDate:         start.Add(time.Hour),
	})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = svc.Create(context.Background(), "organizer-1", VoucherCreateInput{
		EventID:         event.ID,
		DiscountPercent: 101,
		StartDate:       start,
		EndDate:         start.Add(time.Hour),
	})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	// startDate must be strictly before endDate.
	_, err = svc.Create(context.Background(), "organizer-1", VoucherCreateInput{
		EventID:         event.ID,
		DiscountPercent: 10,
		StartDate:       start,
		EndDate:         start,
	})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = svc.Create(context.Background(), "organizer-1", VoucherCreateInput{
		EventID:         event.ID,
		DiscountPercent: 10,
		StartDate:       start.Add(time.Hour),
		EndDate:         start,
	})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = svc.Create(context.Background(), "organizer-1", VoucherCreateInput{
		EventID:         event.ID,
		DiscountPercent: 10,
	})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestVoucherCreateOwnership(t *testing.T) {
	store := newFakeStore()
	event := store.addEvent("concert", 1000, 5, true)
	svc := NewVoucherService(fakeVouchers{store}, fakeEvents{store})
	start := time.Now()

	_, err := svc.Create(context.Background(), "someone-else", VoucherCreateInput{
		EventID:         event.ID,
		DiscountPercent: 10,
		StartDate:       start,
		EndDate:         start.Add(time.Hour),
	})
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	_, err = svc.Create(context.Background(), "organizer-1", VoucherCreateInput{
		EventID:         "event-does-not-exist",
		DiscountPercent: 10,
		StartDate:       start,
		EndDate:         start.Add(time.Hour),
	})
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}
