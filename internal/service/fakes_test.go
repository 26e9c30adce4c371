package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/repository"
)

// fakeStore is an in-memory stand-in for the Postgres-backed repositories
// and ledger. A single mutex serializes compound operations the way row
// locks do in the real store.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	events   map[string]*domain.Event
	vouchers map[string]*domain.Voucher
	txns     map[string]*domain.Transaction
	seq      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*domain.User),
		events:   make(map[string]*domain.Event),
		vouchers: make(map[string]*domain.Voucher),
		txns:     make(map[string]*domain.Transaction),
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) addUser(name string, points int64) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := &domain.User{
		ID:           f.nextID("user"),
		Name:         name,
		Email:        strings.ToLower(name) + "@example.com",
		Role:         domain.UserRoleUser,
		Points:       points,
		ReferralCode: strings.ToUpper(name),
	}
	f.users[user.ID] = user
	return copyUser(user)
}

func (f *fakeStore) addEvent(title string, price int64, seats int, active bool) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	event := &domain.Event{
		ID:             f.nextID("event"),
		Title:          title,
		Price:          price,
		AvailableSeats: seats,
		OrganizerID:    "organizer-1",
		IsActive:       active,
	}
	f.events[event.ID] = event
	return copyEvent(event)
}

func (f *fakeStore) addVoucher(code, eventID string, percent int, start, end time.Time) *domain.Voucher {
	f.mu.Lock()
	defer f.mu.Unlock()
	voucher := &domain.Voucher{
		ID:              f.nextID("voucher"),
		Code:            code,
		DiscountPercent: percent,
		EventID:         eventID,
		StartDate:       start,
		EndDate:         end,
	}
	f.vouchers[code] = voucher
	return voucher
}

func (f *fakeStore) userPoints(id string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id].Points
}

func (f *fakeStore) eventSeats(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[id].AvailableSeats
}

// UserRepository

func (f *fakeStore) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return fmt.Errorf("duplicate email")
		}
	}
	user.ID = f.nextID("user")
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = copyUser(user)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyUser(user), nil
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, pgx.ErrNoRows
}

// fakeEvents adapts fakeStore to repository.EventRepository.
type fakeEvents struct{ store *fakeStore }

func (f fakeEvents) Create(ctx context.Context, event *domain.Event) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	event.ID = f.store.nextID("event")
	f.store.events[event.ID] = copyEvent(event)
	return nil
}

func (f fakeEvents) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	event, ok := f.store.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyEvent(event), nil
}

func (f fakeEvents) ListActive(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var result []domain.Event
	for _, event := range f.store.events {
		if event.IsActive {
			result = append(result, *copyEvent(event))
		}
	}
	return result, nil
}

// fakeVouchers adapts fakeStore to repository.VoucherRepository.
type fakeVouchers struct{ store *fakeStore }

func (f fakeVouchers) Create(ctx context.Context, voucher *domain.Voucher) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	voucher.ID = f.store.nextID("voucher")
	f.store.vouchers[voucher.Code] = voucher
	return nil
}

func (f fakeVouchers) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	voucher, ok := f.store.vouchers[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *voucher
	return &clone, nil
}

// fakeTransactions adapts fakeStore to repository.TransactionRepository.
type fakeTransactions struct{ store *fakeStore }

func (f fakeTransactions) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	txn, ok := f.store.txns[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyTxn(txn), nil
}

func (f fakeTransactions) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var result []domain.Transaction
	for _, txn := range f.store.txns {
		if txn.UserID == userID {
			result = append(result, *copyTxn(txn))
		}
	}
	return result, nil
}

func (f fakeTransactions) ListPending(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var result []domain.Transaction
	for _, txn := range f.store.txns {
		if txn.Status == domain.StatusWaitingConfirmation {
			result = append(result, *copyTxn(txn))
		}
	}
	return result, nil
}

func (f fakeTransactions) ListExpiredWaitingPayment(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var result []domain.Transaction
	for _, txn := range f.store.txns {
		if txn.Status == domain.StatusWaitingPayment && txn.ExpiresAt.Before(now) {
			result = append(result, *copyTxn(txn))
		}
	}
	return result, nil
}

func (f fakeTransactions) ListOverdueWaitingConfirmation(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var result []domain.Transaction
	for _, txn := range f.store.txns {
		if txn.Status == domain.StatusWaitingConfirmation && txn.AdminDeadlineAt.Before(now) {
			result = append(result, *copyTxn(txn))
		}
	}
	return result, nil
}

func (f fakeTransactions) SetPaymentProof(ctx context.Context, id, proof string) (*domain.Transaction, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	txn, ok := f.store.txns[id]
	if !ok || txn.Status != domain.StatusWaitingPayment {
		return nil, pgx.ErrNoRows
	}
	txn.PaymentProof = &proof
	txn.Status = domain.StatusWaitingConfirmation
	return copyTxn(txn), nil
}

// fakeLedger adapts fakeStore to repository.Ledger with the same
// all-or-nothing and guard semantics as the Postgres implementation.
type fakeLedger struct{ store *fakeStore }

func (f fakeLedger) Reserve(ctx context.Context, input repository.ReserveInput) (*domain.Transaction, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	user, ok := f.store.users[input.UserID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	event, ok := f.store.events[input.EventID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if input.PointsUsed > 0 && user.Points < input.PointsUsed {
		return nil, repository.ErrNoPoints
	}
	if event.AvailableSeats <= 0 {
		return nil, repository.ErrNoSeats
	}

	user.Points -= input.PointsUsed
	event.AvailableSeats--

	txn := &domain.Transaction{
		ID:              f.store.nextID("txn"),
		UserID:          input.UserID,
		EventID:         input.EventID,
		TotalPrice:      input.TotalPrice,
		PointsUsed:      input.PointsUsed,
		VoucherID:       input.VoucherID,
		Status:          domain.StatusWaitingPayment,
		ExpiresAt:       input.ExpiresAt,
		AdminDeadlineAt: input.AdminDeadlineAt,
		CreatedAt:       time.Now(),
	}
	f.store.txns[txn.ID] = txn
	return copyTxn(txn), nil
}

func (f fakeLedger) Restitute(ctx context.Context, transactionID string, from, to domain.TransactionStatus) (*domain.Transaction, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	txn, ok := f.store.txns[transactionID]
	if !ok || txn.Status != from {
		return nil, repository.ErrStatusConflict
	}
	txn.Status = to
	f.store.users[txn.UserID].Points += txn.PointsUsed
	f.store.events[txn.EventID].AvailableSeats++
	return copyTxn(txn), nil
}

func (f fakeLedger) Confirm(ctx context.Context, transactionID string, from, to domain.TransactionStatus) (*domain.Transaction, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	txn, ok := f.store.txns[transactionID]
	if !ok || txn.Status != from {
		return nil, repository.ErrStatusConflict
	}
	txn.Status = to
	return copyTxn(txn), nil
}

func copyUser(user *domain.User) *domain.User {
	clone := *user
	return &clone
}

func copyEvent(event *domain.Event) *domain.Event {
	clone := *event
	return &clone
}

func copyTxn(txn *domain.Transaction) *domain.Transaction {
	clone := *txn
	return &clone
}
