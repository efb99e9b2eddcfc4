package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/farmwise/core/tutor"
	"github.com/farmwise/farmwise/testutil"
)

func TestTutorAPI_chat(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Chat", "Farmer", "chat@farm.test", testPwd, true)
	token := getToken(t, usr)
	path := "/v1/lessons/intro-to-soil/chat"
	defer model.Reset()

	tests := []httpTest{
		{name: "history: no token", method: http.MethodGet, path: path, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "history: unknown lesson", method: http.MethodGet, path: "/v1/lessons/beekeeping-101/chat", token: token, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		{name: "history: empty", method: http.MethodGet, path: path, token: token, wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{name: "ask: no token", method: http.MethodPost, path: path, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name:     "ask: blank message",
			method:   http.MethodPost,
			path:     path,
			token:    token,
			body:     []byte(`{"message": "  "}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"message": "this field cannot be blank"}),
		},
	}
	runHTTPTests(t, tests)

	ask := func(t *testing.T, msg string) *http.Response {
		req, rec := newAuthRequest(http.MethodPost, path, token, marchallObj(t, tutor.AskRequest{Message: msg}))
		app.ServeHTTP(rec, req)
		return rec.Result()
	}
	history := func(t *testing.T) []tutor.ChatMessage {
		req, rec := newAuthRequest(http.MethodGet, path, token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var msgs []tutor.ChatMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
		return msgs
	}

	t.Run("ask", func(t *testing.T) {
		res := ask(t, "What is soil made of?")
		require.Equal(t, http.StatusOK, res.StatusCode)
		var reply tutor.ChatMessage
		require.NoError(t, json.NewDecoder(res.Body).Decode(&reply))
		assert.Equal(t, tutor.RoleModel, reply.Role)
		assert.Equal(t, model.Text, reply.Content)

		prompt := model.LastPrompt()
		assert.Contains(t, prompt, "Introduction to Soil")
		assert.Contains(t, prompt, "Chat Farmer")
		assert.Contains(t, prompt, "**user**: What is soil made of?")

		msgs := history(t)
		require.Len(t, msgs, 2)
		assert.Equal(t, tutor.RoleUser, msgs[0].Role)
		assert.Equal(t, "What is soil made of?", msgs[0].Content)
		assert.Equal(t, tutor.RoleModel, msgs[1].Role)
	})

	t.Run("ask: transcript is sent back", func(t *testing.T) {
		res := ask(t, "And why does air matter?")
		require.Equal(t, http.StatusOK, res.StatusCode)
		prompt := model.LastPrompt()
		assert.Contains(t, prompt, "**user**: What is soil made of?")
		assert.Contains(t, prompt, "**model**: "+model.Text)
		assert.Contains(t, prompt, "**user**: And why does air matter?")
		assert.Len(t, history(t), 4)
	})

	t.Run("ask: model failure keeps the question", func(t *testing.T) {
		model.TextErr = assert.AnError
		req, rec := newAuthRequest(http.MethodPost, path, token, []byte(`{"message": "Hello?"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadGateway,
			wantData: marchallObj(t, httpErr{Error: "Sorry, I ran into an error. Please try again."}),
		}, rec)

		msgs := history(t)
		require.Len(t, msgs, 5)
		assert.Equal(t, tutor.RoleUser, msgs[4].Role)
		assert.Equal(t, "Hello?", msgs[4].Content)
	})
}

func TestTutorAPI_suggest(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Suggest", "Farmer", "suggest@farm.test", testPwd, true)
	token := getToken(t, usr)
	defer model.Reset()

	tests := []httpTest{
		{name: "no token", method: http.MethodGet, path: "/v1/suggestions", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name:     "valid",
			method:   http.MethodGet,
			path:     "/v1/suggestions",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, tutor.Suggestion{
				SuggestedModules: "Soil Health Basics",
				Reasoning:        "It builds the foundation for every crop.",
			}),
		},
	}
	runHTTPTests(t, tests)

	t.Run("invalid model output", func(t *testing.T) {
		model.JSON = json.RawMessage(`{"suggestedModules": 42}`)
		req, rec := newAuthRequest(http.MethodGet, "/v1/suggestions", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadGateway,
			wantData: marchallObj(t, httpErr{Error: "Could not suggest learning modules right now. Please try again."}),
		}, rec)
	})
}
