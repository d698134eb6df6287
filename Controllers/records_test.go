package Controllers_test

import (
	"fmt"
	"testing"

	"TapirTwins/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	app            *fiber.App
	spaceId        string
	taskId         string
	recordId       string
	submitterToken string
	approverToken  string
	approverId     string
	outsiderToken  string
}

// setupReview builds a space with an admin, a submitter and an assigned
// approver, creates a task gated on that approver and submits today's record
func setupReview(t *testing.T, app *fiber.App) reviewFixture {
	t.Helper()

	_, adminToken := registerUser(t, app, "space_admin")
	_, submitterToken := registerUser(t, app, "submitter")
	approverId, approverToken := registerUser(t, app, "approver")
	_, outsiderToken := registerUser(t, app, "other_member")

	spaceId, inviteCode := createSpace(t, app, adminToken, "Review")
	joinSpace(t, app, submitterToken, inviteCode)
	joinSpace(t, app, approverToken, inviteCode)
	joinSpace(t, app, outsiderToken, inviteCode)

	resp := doJSON(t, app, "POST", "/api/spaces/"+spaceId+"/tasks", adminToken, fiber.Map{
		"title":                 "Daily photo",
		"assigned_approver_ids": []string{approverId},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	taskId := decodeMap(t, resp)["id"].(string)

	resp = doJSON(t, app, "POST", "/api/tasks/"+taskId+"/complete", submitterToken, fiber.Map{
		"images": []string{testImage},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	recordId := decodeMap(t, resp)["record_id"].(string)

	return reviewFixture{
		app:            app,
		spaceId:        spaceId,
		taskId:         taskId,
		recordId:       recordId,
		submitterToken: submitterToken,
		approverToken:  approverToken,
		approverId:     approverId,
		outsiderToken:  outsiderToken,
	}
}

func (f reviewFixture) reviewPath(action string) string {
	return fmt.Sprintf("/api/spaces/%s/tasks/records/%s/%s", f.spaceId, f.recordId, action)
}

func TestApproveRequiresComment(t *testing.T) {
	app := setupTest(t)
	f := setupReview(t, app)

	resp := doJSON(t, app, "POST", f.reviewPath("approve"), f.approverToken, fiber.Map{
		"comment": "   ",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing approval comment", decodeMap(t, resp)["error"])
}

func TestApproveGatedByAssignedApprovers(t *testing.T) {
	app := setupTest(t)
	f := setupReview(t, app)

	// A member outside the approver snapshot is refused
	resp := doJSON(t, app, "POST", f.reviewPath("approve"), f.outsiderToken, fiber.Map{
		"comment": "looks good",
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Only an assigned approver can review this record", decodeMap(t, resp)["error"])

	resp = doJSON(t, app, "POST", f.reviewPath("approve"), f.approverToken, fiber.Map{
		"comment": "looks good",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, true, body["success"])

	history := body["history_record"].(map[string]interface{})
	assert.Equal(t, "approve", history["action"])
	assert.Equal(t, f.taskId, history["task_id"])

	var record Models.TaskRecord
	require.NoError(t, Models.DB.Where("id = ?", f.recordId).First(&record).Error)
	assert.Equal(t, "approved", record.Status)
	assert.Equal(t, f.approverId, record.ApproverId)
	assert.Equal(t, "looks good", record.ApprovalComment)
	assert.NotEmpty(t, record.ApprovedAt)

	var task Models.Task
	require.NoError(t, Models.DB.Where("id = ?", f.taskId).First(&task).Error)
	assert.Equal(t, "approved", task.Status)
}

func TestEitherAssignedApproverMayReview(t *testing.T) {
	app := setupTest(t)

	_, adminToken := registerUser(t, app, "coordinator")
	_, submitterToken := registerUser(t, app, "worker")
	firstId, _ := registerUser(t, app, "first_reviewer")
	secondId, secondToken := registerUser(t, app, "second_reviewer")

	spaceId, inviteCode := createSpace(t, app, adminToken, "Two Reviewers")
	joinSpace(t, app, submitterToken, inviteCode)
	joinSpace(t, app, secondToken, inviteCode)
	resp := doJSON(t, app, "POST", "/api/spaces/"+spaceId+"/members", adminToken, fiber.Map{
		"username": "first_reviewer",
		"role":     "approver",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/spaces/"+spaceId+"/tasks", adminToken, fiber.Map{
		"title":                 "Dual review",
		"assigned_approver_ids": []string{firstId, secondId},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	taskId := decodeMap(t, resp)["id"].(string)

	resp = doJSON(t, app, "POST", "/api/tasks/"+taskId+"/complete", submitterToken, fiber.Map{
		"images": []string{testImage},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	recordId := decodeMap(t, resp)["record_id"].(string)

	// The second-listed approver is just as entitled as the first
	path := fmt.Sprintf("/api/spaces/%s/tasks/records/%s/approve", spaceId, recordId)
	resp = doJSON(t, app, "POST", path, secondToken, fiber.Map{"comment": "fine by me"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var record Models.TaskRecord
	require.NoError(t, Models.DB.Where("id = ?", recordId).First(&record).Error)
	assert.Equal(t, "approved", record.Status)
	assert.Equal(t, secondId, record.ApproverId)
}

func TestReviewIsTerminal(t *testing.T) {
	app := setupTest(t)
	f := setupReview(t, app)

	resp := doJSON(t, app, "POST", f.reviewPath("approve"), f.approverToken, fiber.Map{
		"comment": "done",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Neither a second approval nor a late rejection may touch the record
	resp = doJSON(t, app, "POST", f.reviewPath("approve"), f.approverToken, fiber.Map{
		"comment": "again",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Record already reviewed", decodeMap(t, resp)["error"])

	resp = doJSON(t, app, "POST", f.reviewPath("reject"), f.approverToken, fiber.Map{
		"reason": "changed my mind",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Record already reviewed", decodeMap(t, resp)["error"])

	var record Models.TaskRecord
	require.NoError(t, Models.DB.Where("id = ?", f.recordId).First(&record).Error)
	assert.Equal(t, "approved", record.Status)
	assert.Empty(t, record.RejectionReason)
}

func TestRejectWritesNoHistory(t *testing.T) {
	app := setupTest(t)
	f := setupReview(t, app)

	resp := doJSON(t, app, "POST", f.reviewPath("reject"), f.approverToken, fiber.Map{
		"reason": "photo is too dark",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var record Models.TaskRecord
	require.NoError(t, Models.DB.Where("id = ?", f.recordId).First(&record).Error)
	assert.Equal(t, "rejected", record.Status)
	assert.Equal(t, "photo is too dark", record.RejectionReason)

	var count int64
	Models.DB.Model(&Models.HistoryRecord{}).Where("task_id = ?", f.taskId).Count(&count)
	assert.Equal(t, int64(0), count)

	// Approval after rejection is refused as well
	resp = doJSON(t, app, "POST", f.reviewPath("approve"), f.approverToken, fiber.Map{
		"comment": "on second thought",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRejectRequiresReason(t *testing.T) {
	app := setupTest(t)
	f := setupReview(t, app)

	resp := doJSON(t, app, "POST", f.reviewPath("reject"), f.approverToken, fiber.Map{})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing rejection reason", decodeMap(t, resp)["error"])
}

func TestReviewUnknownRecord(t *testing.T) {
	app := setupTest(t)
	f := setupReview(t, app)

	path := fmt.Sprintf("/api/spaces/%s/tasks/records/%s/approve", f.spaceId, uuid.NewString())
	resp := doJSON(t, app, "POST", path, f.approverToken, fiber.Map{"comment": "hm"})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Record not found", decodeMap(t, resp)["error"])
}

func TestApprovalHistoryNewestFirst(t *testing.T) {
	app := setupTest(t)
	f := setupReview(t, app)

	resp := doJSON(t, app, "POST", f.reviewPath("approve"), f.approverToken, fiber.Map{
		"comment": "ok",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Backfill an older audit entry to check the ordering
	older := Models.HistoryRecord{
		Id:        uuid.NewString(),
		TaskId:    f.taskId,
		SpaceId:   f.spaceId,
		Date:      "2020-01-01",
		CreatedAt: "2020-01-01T08:00:00Z",
		Action:    "approve",
	}
	require.NoError(t, Models.DB.Create(&older).Error)

	path := fmt.Sprintf("/api/spaces/%s/tasks/%s/history", f.spaceId, f.taskId)
	resp = doJSON(t, app, "GET", path, f.submitterToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	entries := decodeList(t, resp)
	require.Len(t, entries, 2)
	assert.Equal(t, older.Id, entries[1]["id"])
	assert.True(t, entries[0]["created_at"].(string) > entries[1]["created_at"].(string))
}
