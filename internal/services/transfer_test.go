package services

import (
	"context"
	"testing"

	"inventory-system/internal/entities"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo отдаёт заранее заданных тимлидов и админа.
type fakeUserRepo struct {
	leads map[uint64]*entities.User
	admin *entities.User
}

func (f *fakeUserRepo) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) FindTeamLead(ctx context.Context, teamID uint64) (*entities.User, error) {
	if lead, ok := f.leads[teamID]; ok {
		return lead, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) FindAnyActiveAdmin(ctx context.Context) (*entities.User, error) {
	if f.admin == nil {
		return nil, apperrors.ErrNotFound
	}
	return f.admin, nil
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *entities.User) (uint64, error) {
	return 0, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user *entities.User) error { return nil }
func (f *fakeUserRepo) DeleteUser(ctx context.Context, id uint64) error           { return nil }

func uintPtr(v uint64) *uint64 { return &v }

func newTransferServiceForTest(repo *fakeUserRepo) *TransferService {
	return &TransferService{userRepo: repo}
}

func TestResolveApprover_AdminImmediate(t *testing.T) {
	s := newTransferServiceForTest(&fakeUserRepo{})

	needs, approver, err := s.resolveApprover(context.Background(), constants.RoleAdmin, true,
		&entities.Equipment{}, &entities.User{})
	require.NoError(t, err)
	assert.False(t, needs)
	assert.Nil(t, approver)
}

// Флаг immediate_transfer у не-админа не ошибка: первое правило просто не
// срабатывает, и путь выбирают остальные правила лестницы.
func TestResolveApprover_ImmediateFlagIgnoredForNonAdmin(t *testing.T) {
	lead := &entities.User{ID: 42, Role: constants.RoleTeamLead}
	s := newTransferServiceForTest(&fakeUserRepo{
		leads: map[uint64]*entities.User{7: lead},
		admin: &entities.User{ID: 99, Role: constants.RoleAdmin},
	})

	// user с флагом — всё равно согласует тимлид команды получателя.
	recipient := &entities.User{ID: 5, TeamID: uintPtr(7)}
	needs, approver, err := s.resolveApprover(context.Background(), constants.RoleUser, true,
		&entities.Equipment{}, recipient)
	require.NoError(t, err)
	assert.True(t, needs)
	require.NotNil(t, approver)
	assert.Equal(t, uint64(42), *approver)

	// team_lead с флагом внутри своей команды — передача сразу по правилу 4.
	eq := &entities.Equipment{TeamID: uintPtr(7)}
	needs, approver, err = s.resolveApprover(context.Background(), constants.RoleTeamLead, true, eq, recipient)
	require.NoError(t, err)
	assert.False(t, needs)
	assert.Nil(t, approver)

	// team_lead с флагом через границу команды — согласует admin.
	other := &entities.User{ID: 6, TeamID: uintPtr(8)}
	needs, approver, err = s.resolveApprover(context.Background(), constants.RoleTeamLead, true, eq, other)
	require.NoError(t, err)
	assert.True(t, needs)
	require.NotNil(t, approver)
	assert.Equal(t, uint64(99), *approver)
}

func TestResolveApprover_AdminWithoutFlagFollowsLadder(t *testing.T) {
	s := newTransferServiceForTest(&fakeUserRepo{})

	// admin без флага не попадает под правило 1 и выходит на правило 4.
	needs, approver, err := s.resolveApprover(context.Background(), constants.RoleAdmin, false,
		&entities.Equipment{TeamID: uintPtr(1)}, &entities.User{ID: 5, TeamID: uintPtr(2)})
	require.NoError(t, err)
	assert.False(t, needs)
	assert.Nil(t, approver)
}

func TestResolveApprover_UserGoesToRecipientTeamLead(t *testing.T) {
	lead := &entities.User{ID: 42, Role: constants.RoleTeamLead}
	s := newTransferServiceForTest(&fakeUserRepo{
		leads: map[uint64]*entities.User{7: lead},
		admin: &entities.User{ID: 99, Role: constants.RoleAdmin},
	})

	recipient := &entities.User{ID: 5, TeamID: uintPtr(7)}
	needs, approver, err := s.resolveApprover(context.Background(), constants.RoleUser, false,
		&entities.Equipment{}, recipient)
	require.NoError(t, err)
	assert.True(t, needs)
	require.NotNil(t, approver)
	assert.Equal(t, uint64(42), *approver)
}

func TestResolveApprover_UserWithoutTeamLeadFallsBackToAdmin(t *testing.T) {
	s := newTransferServiceForTest(&fakeUserRepo{
		admin: &entities.User{ID: 99, Role: constants.RoleAdmin},
	})

	// У получателя нет команды вовсе.
	needs, approver, err := s.resolveApprover(context.Background(), constants.RoleUser, false,
		&entities.Equipment{}, &entities.User{ID: 5})
	require.NoError(t, err)
	assert.True(t, needs)
	require.NotNil(t, approver)
	assert.Equal(t, uint64(99), *approver)

	// Команда есть, но тимлид в ней не назначен.
	needs, approver, err = s.resolveApprover(context.Background(), constants.RoleUser, false,
		&entities.Equipment{}, &entities.User{ID: 5, TeamID: uintPtr(3)})
	require.NoError(t, err)
	assert.True(t, needs)
	require.NotNil(t, approver)
	assert.Equal(t, uint64(99), *approver)
}

func TestResolveApprover_TeamLeadCrossTeam(t *testing.T) {
	s := newTransferServiceForTest(&fakeUserRepo{
		admin: &entities.User{ID: 99, Role: constants.RoleAdmin},
	})

	eq := &entities.Equipment{TeamID: uintPtr(1)}
	recipient := &entities.User{ID: 5, TeamID: uintPtr(2)}
	needs, approver, err := s.resolveApprover(context.Background(), constants.RoleTeamLead, false, eq, recipient)
	require.NoError(t, err)
	assert.True(t, needs)
	require.NotNil(t, approver)
	assert.Equal(t, uint64(99), *approver)
}

func TestResolveApprover_TeamLeadWithinTeamIsImmediate(t *testing.T) {
	s := newTransferServiceForTest(&fakeUserRepo{})

	eq := &entities.Equipment{TeamID: uintPtr(1)}
	recipient := &entities.User{ID: 5, TeamID: uintPtr(1)}
	needs, approver, err := s.resolveApprover(context.Background(), constants.RoleTeamLead, false, eq, recipient)
	require.NoError(t, err)
	assert.False(t, needs)
	assert.Nil(t, approver)
}

func TestCrossesTeamBoundary(t *testing.T) {
	assert.False(t, crossesTeamBoundary(&entities.Equipment{}, &entities.User{}))
	assert.False(t, crossesTeamBoundary(
		&entities.Equipment{TeamID: uintPtr(1)}, &entities.User{TeamID: uintPtr(1)}))
	assert.True(t, crossesTeamBoundary(
		&entities.Equipment{TeamID: uintPtr(1)}, &entities.User{TeamID: uintPtr(2)}))
	assert.True(t, crossesTeamBoundary(
		&entities.Equipment{TeamID: uintPtr(1)}, &entities.User{}))
	assert.True(t, crossesTeamBoundary(
		&entities.Equipment{}, &entities.User{TeamID: uintPtr(2)}))
}
