package clients

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumonpay/lumonpay/internal/shared"
)

func storedProfile() Profile {
	return Profile{
		ID:         1,
		ClientNo:   "CL-010",
		FirstName:  "Maria",
		LastName:   "Santos",
		Address:    "123 Rizal St",
		ContactNo:  "0917-000-0000",
		Occupation: "Vendor",
		Spouse: Spouse{
			FirstName:  "Jose",
			LastName:   "Santos",
			Occupation: "Driver",
		},
	}
}

func TestMergeBlankKeepsStored(t *testing.T) {
	m := MergeProfile(storedProfile(), ProfileInput{
		FirstName: "Maria Clara",
		LastName:  "",
		Address:   "   ",
	})
	require.True(t, m.Changed)
	require.Equal(t, "Maria Clara", m.Fields.FirstName)
	require.Equal(t, "Santos", m.Fields.LastName)
	require.Equal(t, "123 Rizal St", m.Fields.Address)
}

func TestMergeNoop(t *testing.T) {
	stored := storedProfile()
	m := MergeProfile(stored, ProfileInput{
		FirstName: "Maria",
		LastName:  "Santos",
	})
	require.False(t, m.Changed)
	require.False(t, m.SpouseChanged)
}

func TestMergeTrimsBeforeComparing(t *testing.T) {
	m := MergeProfile(storedProfile(), ProfileInput{LastName: "  Santos  "})
	require.False(t, m.Changed)
	require.Equal(t, "Santos", m.Fields.LastName)
}

func TestMergeSpouseNested(t *testing.T) {
	m := MergeProfile(storedProfile(), ProfileInput{
		Spouse: Spouse{Occupation: "Mechanic"},
	})
	require.True(t, m.Changed)
	require.True(t, m.SpouseChanged)
	require.Equal(t, "Mechanic", m.Fields.Spouse.Occupation)
	require.Equal(t, "Jose", m.Fields.Spouse.FirstName)
	require.Equal(t, "Santos", m.Fields.Spouse.LastName)
}

func TestMergeSpouseUntouchedWhenAllBlank(t *testing.T) {
	stored := storedProfile()
	m := MergeProfile(stored, ProfileInput{ContactNo: "0918-111-1111"})
	require.True(t, m.Changed)
	require.False(t, m.SpouseChanged)
	require.Equal(t, stored.Spouse, m.Fields.Spouse)
}

type memoryClientRepo struct {
	profiles map[string]*Profile
	updates  int
}

func (m *memoryClientRepo) CreateProfile(_ context.Context, clientNo string, input ProfileInput) (*Profile, error) {
	p := &Profile{
		ID:         int64(len(m.profiles) + 1),
		ClientNo:   clientNo,
		FirstName:  input.FirstName,
		MiddleName: input.MiddleName,
		LastName:   input.LastName,
		Address:    input.Address,
		ContactNo:  input.ContactNo,
		Occupation: input.Occupation,
		Spouse:     input.Spouse,
	}
	m.profiles[clientNo] = p
	return p, nil
}

func (m *memoryClientRepo) GetProfile(_ context.Context, clientNo string) (*Profile, error) {
	p, ok := m.profiles[clientNo]
	if !ok {
		return nil, fmt.Errorf("client %q: %w", clientNo, shared.ErrNotFound)
	}
	return p, nil
}

func (m *memoryClientRepo) UpdateProfile(_ context.Context, clientNo string, merge Merge) (*Profile, error) {
	m.updates++
	p := m.profiles[clientNo]
	p.FirstName = merge.Fields.FirstName
	p.MiddleName = merge.Fields.MiddleName
	p.LastName = merge.Fields.LastName
	p.Address = merge.Fields.Address
	p.ContactNo = merge.Fields.ContactNo
	p.Occupation = merge.Fields.Occupation
	if merge.SpouseChanged {
		p.Spouse = merge.Fields.Spouse
	}
	return p, nil
}

var _ RepositoryPort = (*memoryClientRepo)(nil)

func newClientService() (*Service, *memoryClientRepo) {
	repo := &memoryClientRepo{profiles: map[string]*Profile{}}
	stored := storedProfile()
	repo.profiles[stored.ClientNo] = &stored
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo), repo
}

func TestServiceMergeSkipsNoopWrite(t *testing.T) {
	svc, repo := newClientService()

	got, err := svc.MergeProfile(context.Background(), "CL-010", ProfileInput{LastName: "Santos"})
	require.NoError(t, err)
	require.Equal(t, "Santos", got.LastName)
	require.Zero(t, repo.updates)
}

func TestServiceMergeWritesChanges(t *testing.T) {
	svc, repo := newClientService()

	got, err := svc.MergeProfile(context.Background(), "CL-010", ProfileInput{
		Address: "456 Mabini St",
		Spouse:  Spouse{ContactNo: "0919-222-2222"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, repo.updates)
	require.Equal(t, "456 Mabini St", got.Address)
	require.Equal(t, "0919-222-2222", got.Spouse.ContactNo)
	require.Equal(t, "Jose", got.Spouse.FirstName)
}

func TestServiceMergeUnknownClient(t *testing.T) {
	svc, _ := newClientService()

	_, err := svc.MergeProfile(context.Background(), "CL-404", ProfileInput{LastName: "X"})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceCreateRequiresClientNo(t *testing.T) {
	svc, _ := newClientService()

	_, err := svc.CreateProfile(context.Background(), "", ProfileInput{FirstName: "Ana"})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}
