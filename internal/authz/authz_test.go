package authz

import (
	"testing"

	"github.com/mtakagi/discussion-board-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		name      string
		superuser bool
		role      models.TopicRole
		op        Op
		want      bool
	}{
		{"owner updates topic", false, models.RoleOwner, OpTopicUpdate, true},
		{"admin updates topic", false, models.RoleAdmin, OpTopicUpdate, true},
		{"member updates topic", false, models.RoleMember, OpTopicUpdate, false},
		{"non-member updates topic", false, models.RoleNone, OpTopicUpdate, false},
		{"superuser updates topic without membership", true, models.RoleNone, OpTopicUpdate, true},

		{"owner deletes topic", false, models.RoleOwner, OpTopicDelete, true},
		{"admin deletes topic", false, models.RoleAdmin, OpTopicDelete, false},
		{"member deletes topic", false, models.RoleMember, OpTopicDelete, false},
		{"superuser deletes topic", true, models.RoleNone, OpTopicDelete, true},

		{"owner manages members", false, models.RoleOwner, OpMemberManage, true},
		{"admin manages members", false, models.RoleAdmin, OpMemberManage, true},
		{"member manages members", false, models.RoleMember, OpMemberManage, false},
		{"superuser manages members", true, models.RoleNone, OpMemberManage, true},

		{"owner manages tasks", false, models.RoleOwner, OpTaskManage, true},
		{"admin manages tasks", false, models.RoleAdmin, OpTaskManage, true},
		{"member manages tasks", false, models.RoleMember, OpTaskManage, false},
		{"non-member manages tasks", false, models.RoleNone, OpTaskManage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.superuser, tt.role, tt.op))
		})
	}
}

func TestTaskUpdateScope(t *testing.T) {
	tests := []struct {
		name           string
		superuser      bool
		role           models.TopicRole
		isWorker       bool
		wantAllowed    bool
		wantStatusOnly bool
	}{
		{"owner full update", false, models.RoleOwner, false, true, false},
		{"admin full update", false, models.RoleAdmin, false, true, false},
		{"superuser full update", true, models.RoleNone, false, true, false},
		{"worker status only", false, models.RoleMember, true, true, true},
		{"worker without membership status only", false, models.RoleNone, true, true, true},
		{"admin who is also worker keeps full update", false, models.RoleAdmin, true, true, false},
		{"plain member denied", false, models.RoleMember, false, false, false},
		{"non-member denied", false, models.RoleNone, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, statusOnly := TaskUpdateScope(tt.superuser, tt.role, tt.isWorker)
			assert.Equal(t, tt.wantAllowed, allowed)
			assert.Equal(t, tt.wantStatusOnly, statusOnly)
		})
	}
}

func TestMemberRemovalAllowed(t *testing.T) {
	assert.False(t, MemberRemovalAllowed(models.RoleOwner))
	assert.True(t, MemberRemovalAllowed(models.RoleAdmin))
	assert.True(t, MemberRemovalAllowed(models.RoleMember))
}

func TestCanManageUser(t *testing.T) {
	assert.True(t, CanManageUser(false, true))
	assert.True(t, CanManageUser(true, false))
	assert.False(t, CanManageUser(false, false))
}
