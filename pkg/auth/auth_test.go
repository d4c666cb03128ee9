package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	verrors "github.com/Humphrey-He/vanya/pkg/errors"
	"github.com/Humphrey-He/vanya/pkg/persist"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// sequentialIDs returns an id generator yielding addr-1, addr-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("addr-%d", n)
	}
}

func newStore(opts ...Option) *Store {
	return New(append([]Option{WithDelay(0), WithIDGenerator(sequentialIDs())}, opts...)...)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		want     bool
	}{
		{"valid credentials", "priya@example.com", "secret", true},
		{"empty email", "", "secret", false},
		{"empty password", "priya@example.com", "", false},
		{"both empty", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore()
			ok, err := s.Login(ctx, tc.email, tc.password)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
			assert.Equal(t, tc.want, s.IsAuthenticated())
		})
	}
}

func TestLoginSetsFixedPatternUser(t *testing.T) {
	s := newStore()
	ok, err := s.Login(context.Background(), "guest@example.com", "pw")
	require.NoError(t, err)
	require.True(t, ok)

	u, signedIn := s.User()
	require.True(t, signedIn)
	assert.Equal(t, User{ID: "1", Email: "guest@example.com", FirstName: "Priya", LastName: "Sharma"}, u)
	assert.Equal(t, "Priya Sharma", u.FullName())
}

func TestLoginWaitsForDelay(t *testing.T) {
	s := newStore(WithDelay(30 * time.Millisecond))

	start := time.Now()
	ok, err := s.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestLoginCancelled(t *testing.T) {
	s := newStore(WithDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := s.Login(ctx, "a@b.c", "pw")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, s.IsAuthenticated())
}

func TestSignupAndLogout(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	ok, err := s.Signup(ctx, Registration{Email: "meera@example.com", Password: "pw", FirstName: "Meera", LastName: "Iyer"})
	require.NoError(t, err)
	assert.True(t, ok)

	u, signedIn := s.User()
	require.True(t, signedIn)
	assert.Equal(t, "Meera", u.FirstName)
	assert.Equal(t, "meera@example.com", u.Email)

	_, err = s.AddAddress(ctx, Address{Name: "Meera", City: "Pune"})
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.IsAuthenticated())
	_, signedIn = s.User()
	assert.False(t, signedIn)
	assert.Len(t, s.Addresses(), 1, "logout keeps saved addresses")
}

func TestAddAndRemoveAddress(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	a, err := s.AddAddress(ctx, Address{Name: "Home", City: "Jaipur", Pincode: "302001"})
	require.NoError(t, err)
	b, err := s.AddAddress(ctx, Address{Name: "Office", City: "Delhi", ID: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, "addr-1", a.ID)
	assert.Equal(t, "addr-2", b.ID, "caller-supplied ids are replaced")

	require.NoError(t, s.RemoveAddress(ctx, "addr-1"))
	require.NoError(t, s.RemoveAddress(ctx, "missing"))

	got := s.Addresses()
	require.Len(t, got, 1)
	assert.Equal(t, "Office", got[0].Name)
}

func TestDefaultAddressIsExclusive(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	for _, addr := range []Address{
		{Name: "Home", IsDefault: true},
		{Name: "Office"},
		{Name: "Parents", IsDefault: true},
	} {
		_, err := s.AddAddress(ctx, addr)
		require.NoError(t, err)
	}

	countDefaults := func() int {
		n := 0
		for _, a := range s.Addresses() {
			if a.IsDefault {
				n++
			}
		}
		return n
	}

	assert.Equal(t, 1, countDefaults(), "adding a default clears the previous one")
	def, ok := s.DefaultAddress()
	require.True(t, ok)
	assert.Equal(t, "Parents", def.Name)

	for _, id := range []string{"addr-2", "addr-1", "addr-1", "addr-3"} {
		require.NoError(t, s.SetDefaultAddress(ctx, id))
		assert.Equal(t, 1, countDefaults())
		def, _ := s.DefaultAddress()
		assert.Equal(t, id, def.ID)
	}

	err := s.SetDefaultAddress(ctx, "nope")
	assert.ErrorIs(t, err, verrors.ErrAddressNotFound)
	def, _ = s.DefaultAddress()
	assert.Equal(t, "addr-3", def.ID, "unknown id leaves the default alone")
}

func TestPersistAndRestore(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStorage()
	slot := persist.NewSlot[State](mem, nil, SlotName)

	s := newStore(WithSlot(slot))
	_, err := s.Login(ctx, "priya@example.com", "pw")
	require.NoError(t, err)
	_, err = s.AddAddress(ctx, Address{Name: "Home", City: "Mumbai", IsDefault: true})
	require.NoError(t, err)

	restored := newStore(WithSlot(slot))
	ok, err := restored.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	u, signedIn := restored.User()
	assert.True(t, signedIn)
	assert.Equal(t, "priya@example.com", u.Email)
	def, ok := restored.DefaultAddress()
	require.True(t, ok)
	assert.Equal(t, "Mumbai", def.City)

	require.NoError(t, restored.Logout(ctx))
	again := newStore(WithSlot(slot))
	_, err = again.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, again.IsAuthenticated())
	assert.Len(t, again.Addresses(), 1)
}

func TestDefaultIDsAreUUIDs(t *testing.T) {
	s := New(WithDelay(0))
	a, err := s.AddAddress(context.Background(), Address{Name: "Home"})
	require.NoError(t, err)
	assert.Len(t, a.ID, 36)
}

func TestResetForgetsEverything(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStorage()
	slot := persist.NewSlot[State](mem, nil, SlotName)

	s := newStore(WithSlot(slot))
	_, err := s.Login(ctx, "priya@example.com", "pw")
	require.NoError(t, err)
	_, err = s.AddAddress(ctx, Address{Name: "Home"})
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Addresses())
	assert.Empty(t, mem.Names())
}

func TestRestoreKeepsOneDefault(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStorage()
	slot := persist.NewSlot[State](mem, nil, SlotName)
	require.NoError(t, slot.Save(ctx, State{Addresses: []Address{
		{ID: "a", Name: "Home", IsDefault: true},
		{ID: "b", Name: "Office"},
		{ID: "c", Name: "Parents", IsDefault: true},
	}}))

	s := newStore(WithSlot(slot))
	ok, err := s.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	defaults := 0
	for _, a := range s.Addresses() {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
	def, ok := s.DefaultAddress()
	require.True(t, ok)
	assert.Equal(t, "c", def.ID)
}
