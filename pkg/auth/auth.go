// Package auth implements the mock session and address-book state container.
//
// There is no credential verification: any non-empty email and password
// sign in. Login and signup wait a simulated network delay before the
// session user is set. The address book keeps at most one default address.
package auth

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	verrors "github.com/Humphrey-He/vanya/pkg/errors"
	"github.com/Humphrey-He/vanya/pkg/persist"
)

// SlotName is the default persisted slot for the session.
const SlotName = "vanya-auth"

// DefaultDelay is the simulated round trip of login and signup.
const DefaultDelay = time.Second

// The mock backend always signs in as this account.
const (
	loginUserID    = "1"
	loginFirstName = "Priya"
	loginLastName  = "Sharma"
)

// User is the signed-in account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Address is a saved delivery address.
type Address struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	IsDefault bool   `json:"isDefault"`
}

// Registration is the signup form.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// State is the persisted form of the session.
type State struct {
	User            *User     `json:"user"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	Addresses       []Address `json:"addresses"`
}

// Option configures a Store.
type Option func(*Store)

// WithSlot persists the session to slot after every mutation.
func WithSlot(slot *persist.Slot[State]) Option {
	return func(s *Store) {
		s.slot = slot
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithDelay sets the simulated login/signup delay. Zero disables it.
func WithDelay(d time.Duration) Option {
	return func(s *Store) {
		s.delay = d
	}
}

// WithIDGenerator overrides how address ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// Store owns the session user and the address book. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	user      *User
	addresses []Address

	slot   *persist.Slot[State]
	logger *zap.Logger
	delay  time.Duration
	newID  func() string
}

// New creates a signed-out store with an empty address book.
func New(opts ...Option) *Store {
	s := &Store{
		logger: zap.NewNop(),
		delay:  DefaultDelay,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted snapshot, reporting false when there is none.
// When the snapshot marks several addresses default only the last keeps it.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	state, ok, err := s.slot.Load(ctx)
	if err != nil || !ok {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	if state.IsAuthenticated && state.User != nil {
		u := *state.User
		s.user = &u
	}
	s.addresses = keepLastDefault(state.Addresses)
	return true, nil
}

// keepLastDefault clears every default flag but the last one, so a
// hand-edited snapshot cannot restore two default addresses.
func keepLastDefault(addresses []Address) []Address {
	seen := false
	for i := len(addresses) - 1; i >= 0; i-- {
		if addresses[i].IsDefault {
			if seen {
				addresses[i].IsDefault = false
			}
			seen = true
		}
	}
	return addresses
}

// Reset signs out, forgets every address and deletes the snapshot.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.addresses = nil
	if err := s.slot.Clear(ctx); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

// Login signs in with any non-empty email and password after the simulated
// delay. It returns false, with a nil error, when either field is empty.
// A cancelled ctx aborts the wait and leaves the session unchanged.
func (s *Store) Login(ctx context.Context, email, password string) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}
	if email == "" || password == "" {
		s.logger.Debug("Rejected login with empty credentials")
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &User{
		ID:        loginUserID,
		Email:     email,
		FirstName: loginFirstName,
		LastName:  loginLastName,
	}
	s.logger.Info("User logged in", zap.String("email", email))
	return true, s.commit(ctx)
}

// Signup creates the session user from the registration form after the
// simulated delay. The mock backend accepts every registration.
func (s *Store) Signup(ctx context.Context, reg Registration) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &User{
		ID:        loginUserID,
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
	}
	s.logger.Info("User signed up", zap.String("email", reg.Email))
	return true, s.commit(ctx)
}

// Logout clears the session user. Saved addresses are kept.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	return s.commit(ctx)
}

// User returns the session user.
func (s *Store) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether a user is signed in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// AddAddress appends addr under a freshly minted id and returns the stored
// address. When addr is marked default every other address loses the flag.
func (s *Store) AddAddress(ctx context.Context, addr Address) (Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr.ID = s.newID()
	if addr.IsDefault {
		for i := range s.addresses {
			s.addresses[i].IsDefault = false
		}
	}
	s.addresses = append(s.addresses, addr)
	return addr, s.commit(ctx)
}

// RemoveAddress deletes the address with id. Unknown ids are ignored.
func (s *Store) RemoveAddress(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.addresses = slices.Delete(slices.Clone(s.addresses), i, i+1)
	return s.commit(ctx)
}

// SetDefaultAddress marks id as the only default address.
// An unknown id returns ErrAddressNotFound and changes nothing.
func (s *Store) SetDefaultAddress(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", verrors.ErrAddressNotFound, id)
	}
	for i := range s.addresses {
		s.addresses[i].IsDefault = s.addresses[i].ID == id
	}
	return s.commit(ctx)
}

// Addresses returns the address book in insertion order.
func (s *Store) Addresses() []Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.addresses)
}

// DefaultAddress returns the default address, if one is set.
func (s *Store) DefaultAddress() (Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.addresses, func(a Address) bool { return a.ID == id })
}

func (s *Store) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Store) commit(ctx context.Context) error {
	state := State{
		IsAuthenticated: s.user != nil,
		Addresses:       slices.Clone(s.addresses),
	}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}

	if err := s.slot.Save(ctx, state); err != nil {
		s.logger.Warn("Failed to persist session",
			zap.String("slot", s.slot.Name()),
			zap.Error(err))
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
