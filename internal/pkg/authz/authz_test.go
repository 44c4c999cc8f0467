package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LwandleM/SafeSuburb/app/models"
)

func TestCanMutate(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		ownerID uint
		want    bool
	}{
		{"owner", Actor{UserID: 5, Role: models.ROLE_USER}, 5, true},
		{"other user", Actor{UserID: 5, Role: models.ROLE_USER}, 6, false},
		{"moderator on foreign record", Actor{UserID: 5, Role: models.ROLE_MODERATOR}, 6, true},
		{"admin on foreign record", Actor{UserID: 5, Role: models.ROLE_ADMIN}, 6, true},
		{"anonymous", Actor{}, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutate(tt.actor, tt.ownerID))
		})
	}
}

func TestCanFile(t *testing.T) {
	assert.False(t, CanFile(Actor{UserID: 1, Approved: false}))
	assert.True(t, CanFile(Actor{UserID: 1, Approved: true}))
	assert.False(t, CanFile(Actor{Approved: true}))
}

func TestCanTransition(t *testing.T) {
	owner := Actor{UserID: 3, Role: models.ROLE_USER, Approved: true}
	mod := Actor{UserID: 8, Role: models.ROLE_MODERATOR}

	// Owner may close out their own active report.
	assert.True(t, CanTransition(owner, 3, models.STATUS_ACTIVE, models.STATUS_RESOLVED))
	// But not approve pending ones, even their own.
	assert.False(t, CanTransition(owner, 3, models.STATUS_PENDING, models.STATUS_ACTIVE))
	// And not someone else's.
	assert.False(t, CanTransition(owner, 4, models.STATUS_ACTIVE, models.STATUS_RESOLVED))

	// Moderators may perform any valid transition.
	assert.True(t, CanTransition(mod, 3, models.STATUS_PENDING, models.STATUS_ACTIVE))
	assert.True(t, CanTransition(mod, 3, models.STATUS_ACTIVE, models.STATUS_REJECTED))
	// But not invalid ones.
	assert.False(t, CanTransition(mod, 3, models.STATUS_RESOLVED, models.STATUS_ACTIVE))
}

func TestCanManageUsers(t *testing.T) {
	assert.True(t, CanManageUsers(Actor{Role: models.ROLE_ADMIN}))
	assert.False(t, CanManageUsers(Actor{Role: models.ROLE_MODERATOR}))
	assert.False(t, CanManageUsers(Actor{Role: models.ROLE_USER}))
}

func TestActorFromUser(t *testing.T) {
	u := &models.User{ID: 7, Role: models.ROLE_MODERATOR, Approved: true}
	a := ActorFromUser(u)
	assert.Equal(t, uint(7), a.UserID)
	assert.True(t, IsElevated(a.Role))
	assert.True(t, a.Approved)
}
