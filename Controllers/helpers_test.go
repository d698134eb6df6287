package Controllers_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"TapirTwins/FiberConfig"
	"TapirTwins/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testImage = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("not-really-a-jpeg"))

func setupTest(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("DATA_DIR", t.TempDir())

	// One named in-memory database per test, shared across pooled connections
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&Models.User{},
		&Models.Space{},
		&Models.SpaceMember{},
		&Models.Task{},
		&Models.TaskRecord{},
		&Models.HistoryRecord{},
		&Models.Dream{},
		&Models.UserSetting{},
		&Models.DailyTaskStat{},
	))
	Models.DB = db

	app := fiber.New()
	FiberConfig.SetupRoutes(app)
	return app
}

// doJSON fires a request with an optional bearer token and JSON body
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeList(t *testing.T, resp *http.Response) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerUser creates an account and returns (userId, token)
func registerUser(t *testing.T, app *fiber.App, username string) (string, string) {
	t.Helper()

	resp := doJSON(t, app, "POST", "/api/auth/register", "", fiber.Map{
		"username": username,
		"password": "password123",
		"email":    fmt.Sprintf("%s@example.com", username),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeMap(t, resp)
	user := body["user"].(map[string]interface{})
	return user["id"].(string), body["token"].(string)
}

// createSpace returns (spaceId, inviteCode) for a space owned by token's user
func createSpace(t *testing.T, app *fiber.App, token, name string) (string, string) {
	t.Helper()

	resp := doJSON(t, app, "POST", "/api/spaces", token, fiber.Map{"name": name})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeMap(t, resp)
	return body["id"].(string), body["invite_code"].(string)
}

// joinSpace adds token's user to the space via its invite code
func joinSpace(t *testing.T, app *fiber.App, token, inviteCode string) {
	t.Helper()

	resp := doJSON(t, app, "POST", "/api/spaces/join", token, fiber.Map{"invite_code": inviteCode})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
