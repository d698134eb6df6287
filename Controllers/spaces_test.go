package Controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberRole(members []interface{}, userId string) string {
	for _, m := range members {
		member := m.(map[string]interface{})
		if member["user_id"] == userId {
			return member["role"].(string)
		}
	}
	return ""
}

func TestCreateSpaceMakesCreatorAdmin(t *testing.T) {
	app := setupTest(t)
	creatorId, token := registerUser(t, app, "creator")

	spaceId, inviteCode := createSpace(t, app, token, "Morning Habits")
	require.NotEmpty(t, spaceId)
	require.Len(t, inviteCode, 8)

	resp := doJSON(t, app, "GET", "/api/spaces/"+spaceId, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, creatorId, body["creator_id"])
	assert.Equal(t, "admin", memberRole(body["members"].([]interface{}), creatorId))
}

func TestJoinSpaceByInviteCode(t *testing.T) {
	app := setupTest(t)
	_, adminToken := registerUser(t, app, "admin_user")
	joinerId, joinerToken := registerUser(t, app, "joiner")

	spaceId, inviteCode := createSpace(t, app, adminToken, "Shared")
	joinSpace(t, app, joinerToken, inviteCode)

	resp := doJSON(t, app, "GET", "/api/spaces/"+spaceId, joinerToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, "submitter", memberRole(body["members"].([]interface{}), joinerId))

	// Joining twice is rejected
	resp = doJSON(t, app, "POST", "/api/spaces/join", joinerToken, fiber.Map{"invite_code": inviteCode})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestJoinSpaceInvalidCode(t *testing.T) {
	app := setupTest(t)
	_, token := registerUser(t, app, "loner")

	resp := doJSON(t, app, "POST", "/api/spaces/join", token, fiber.Map{"invite_code": "NOPE1234"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNonMemberCannotSeeSpace(t *testing.T) {
	app := setupTest(t)
	_, adminToken := registerUser(t, app, "owner")
	_, outsiderToken := registerUser(t, app, "outsider")

	spaceId, _ := createSpace(t, app, adminToken, "Private")

	resp := doJSON(t, app, "GET", "/api/spaces/"+spaceId, outsiderToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/spaces/"+spaceId+"/tasks", outsiderToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestInviteMemberByUsername(t *testing.T) {
	app := setupTest(t)
	_, adminToken := registerUser(t, app, "boss")
	inviteeId, inviteeToken := registerUser(t, app, "reviewer")

	spaceId, _ := createSpace(t, app, adminToken, "Team")

	resp := doJSON(t, app, "POST", "/api/spaces/"+spaceId+"/members", adminToken, fiber.Map{
		"username": "reviewer",
		"role":     "approver",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, "approver", memberRole(body["members"].([]interface{}), inviteeId))

	// A non-admin member cannot invite
	_, thirdToken := registerUser(t, app, "third")
	resp = doJSON(t, app, "GET", "/api/spaces/"+spaceId, inviteeToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "POST", "/api/spaces/"+spaceId+"/members", inviteeToken, fiber.Map{
		"username": "third",
		"role":     "submitter",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	_ = thirdToken
}

func TestInviteRejectsAdminRole(t *testing.T) {
	app := setupTest(t)
	_, adminToken := registerUser(t, app, "chief")
	registerUser(t, app, "candidate")

	spaceId, _ := createSpace(t, app, adminToken, "Strict")

	resp := doJSON(t, app, "POST", "/api/spaces/"+spaceId+"/members", adminToken, fiber.Map{
		"username": "candidate",
		"role":     "admin",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid role", decodeMap(t, resp)["error"])
}

func TestCreatorCannotBeRemovedOrDemoted(t *testing.T) {
	app := setupTest(t)
	creatorId, adminToken := registerUser(t, app, "founder")

	spaceId, _ := createSpace(t, app, adminToken, "Founded")

	resp := doJSON(t, app, "DELETE", "/api/spaces/"+spaceId+"/members/"+creatorId, adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "PUT", "/api/spaces/"+spaceId+"/members/"+creatorId, adminToken, fiber.Map{
		"role": "submitter",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestOnlyCreatorDeletesSpace(t *testing.T) {
	app := setupTest(t)
	_, adminToken := registerUser(t, app, "keeper")
	memberId, memberToken := registerUser(t, app, "member")

	spaceId, inviteCode := createSpace(t, app, adminToken, "Doomed")
	joinSpace(t, app, memberToken, inviteCode)

	resp := doJSON(t, app, "PUT", "/api/spaces/"+spaceId+"/members/"+memberId, adminToken, fiber.Map{
		"role": "approver",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "DELETE", "/api/spaces/"+spaceId, memberToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", "/api/spaces/"+spaceId, adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/spaces/"+spaceId, adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
