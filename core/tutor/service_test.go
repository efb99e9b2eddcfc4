package tutor_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/catalog"
	"github.com/farmwise/farmwise/core/progress"
	"github.com/farmwise/farmwise/core/tutor"
	"github.com/farmwise/farmwise/core/user"
	aisvc "github.com/farmwise/farmwise/services/ai"
	emailsvc "github.com/farmwise/farmwise/services/email"
	eventsvc "github.com/farmwise/farmwise/services/events"
	inmemdb "github.com/farmwise/farmwise/storage/database/inmem"
	"github.com/farmwise/farmwise/testutil"
)

type fixture struct {
	svc       tutor.Service
	model     *aisvc.FakeModel
	usrRepo   user.Repository
	progRepo  progress.Repository
	tutorials []catalog.Tutorial
}

func setup(t *testing.T) fixture {
	conf := testutil.NewConfig()
	logger := testutil.NewLogger(conf)

	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	catalogRepo := inmemdb.NewCatalogRepository(db)
	tutorials := testutil.SeedCatalog(t, catalogRepo)
	model := aisvc.NewFakeModel()

	usrSvc := user.NewService(conf, usrRepo, emailsvc.NewConsoleServiceMock(conf, logger), eventsvc.NewRecorder(), logger)
	return fixture{
		svc:       tutor.NewService(inmemdb.NewHistoryRepository(db), model, catalog.NewService(catalogRepo), usrSvc, logger),
		model:     model,
		usrRepo:   usrRepo,
		progRepo:  inmemdb.NewProgressRepository(db),
		tutorials: tutorials,
	}
}

func TestService_chat(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	usr := testutil.CreateUser(t, f.usrRepo, "Amina", "Odhiambo", "amina@farm.test", "", true)
	other := testutil.CreateUser(t, f.usrRepo, "Kofi", "Boateng", "kofi@farm.test", "", true)

	t.Run("empty history", func(t *testing.T) {
		msgs, err := f.svc.History(ctx, usr.ID, "pond-design")
		require.NoError(t, err)
		assert.NotNil(t, msgs)
		assert.Empty(t, msgs)
	})

	t.Run("unknown lesson", func(t *testing.T) {
		_, err := f.svc.History(ctx, usr.ID, "hives")
		assert.True(t, core.IsNotFound(err))
		_, err = f.svc.Ask(ctx, usr.ID, "hives", "hello")
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("blank message", func(t *testing.T) {
		_, err := f.svc.Ask(ctx, usr.ID, "pond-design", "   ")
		var verr *core.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "message", verr.Fields[0].Field)
	})

	t.Run("ask", func(t *testing.T) {
		reply, err := f.svc.Ask(ctx, usr.ID, "pond-design", " How deep should my pond be? ")
		require.NoError(t, err)
		assert.Equal(t, tutor.RoleModel, reply.Role)
		assert.Equal(t, f.model.Text, reply.Content)

		prompt := f.model.LastPrompt()
		assert.Contains(t, prompt, "Your current student is Amina Odhiambo, who is interested in farming.")
		assert.Contains(t, prompt, "Their progress so far: No quizzes completed yet.\n")
		assert.Contains(t, prompt, `"Pond Design and Construction"`)
		assert.Contains(t, prompt, "**user**: How deep should my pond be?\n")

		msgs, err := f.svc.History(ctx, usr.ID, "pond-design")
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, tutor.RoleUser, msgs[0].Role)
		assert.Equal(t, "How deep should my pond be?", msgs[0].Content)
		assert.Equal(t, tutor.RoleModel, msgs[1].Role)
	})

	t.Run("follow-up sends the transcript", func(t *testing.T) {
		require.NoError(t, f.progRepo.UpsertQuizResult(ctx, usr.ID, progress.QuizResult{LessonSlug: "intro-to-soil"}))

		_, err := f.svc.Ask(ctx, usr.ID, "pond-design", "And how wide?")
		require.NoError(t, err)

		prompt := f.model.LastPrompt()
		assert.Contains(t, prompt, "**user**: How deep should my pond be?\n**model**: "+f.model.Text+"\n**user**: And how wide?\n")
		assert.Contains(t, prompt, "Their progress so far: Completed quizzes for: intro-to-soil.\n")

		msgs, err := f.svc.History(ctx, usr.ID, "pond-design")
		require.NoError(t, err)
		assert.Len(t, msgs, 4)
	})

	t.Run("histories are kept per user and lesson", func(t *testing.T) {
		msgs, err := f.svc.History(ctx, other.ID, "pond-design")
		require.NoError(t, err)
		assert.Empty(t, msgs)

		msgs, err = f.svc.History(ctx, usr.ID, "intro-to-soil")
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("model failure keeps the user message", func(t *testing.T) {
		defer f.model.Reset()
		f.model.TextErr = errors.New("quota exceeded")

		_, err := f.svc.Ask(ctx, usr.ID, "pond-design", "Which fish grow fastest?")
		var serr *core.ServiceError
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, tutor.ErrTutorUnavailable, serr.Err)

		msgs, err := f.svc.History(ctx, usr.ID, "pond-design")
		require.NoError(t, err)
		require.Len(t, msgs, 5)
		assert.Equal(t, "Which fish grow fastest?", msgs[4].Content)
	})

	t.Run("empty model reply", func(t *testing.T) {
		defer f.model.Reset()
		f.model.Text = "  "

		_, err := f.svc.Ask(ctx, usr.ID, "pond-design", "Hello?")
		var serr *core.ServiceError
		require.True(t, errors.As(err, &serr))
	})
}

func TestService_GenerateAvatar(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	uri, err := f.svc.GenerateAvatar(ctx, " a smiling farmer with a straw hat ")
	require.NoError(t, err)
	assert.Equal(t, f.model.Image, uri)
	assert.Contains(t, f.model.LastPrompt(), "based on the following prompt: a smiling farmer with a straw hat. The background")

	for name, mutate := range map[string]func(m *aisvc.FakeModel){
		"model error": func(m *aisvc.FakeModel) { m.ImgErr = errors.New("blocked") },
		"no media":    func(m *aisvc.FakeModel) { m.Image = "" },
	} {
		t.Run(name, func(t *testing.T) {
			defer f.model.Reset()
			mutate(f.model)

			_, err := f.svc.GenerateAvatar(ctx, "a cow")
			var serr *core.ServiceError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tutor.ErrImageGeneration, serr.Err)
		})
	}
}

func TestService_SuggestModules(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	usr := testutil.CreateUser(t, f.usrRepo, "Kofi", "Boateng", "kofi@farm.test", "", true)
	require.NoError(t, f.progRepo.UpsertQuizResult(ctx, usr.ID, progress.QuizResult{LessonSlug: "pond-design"}))

	s, err := f.svc.SuggestModules(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, tutor.Suggestion{
		SuggestedModules: "Soil Health Basics",
		Reasoning:        "It builds the foundation for every crop.",
	}, s)

	prompt := f.model.LastPrompt()
	assert.Contains(t, prompt, "Farmer Profile: Kofi Boateng, interested in farming.")
	assert.Contains(t, prompt, "Learning Progress: Completed quizzes for: pond-design")
	for _, tut := range f.tutorials {
		assert.Contains(t, prompt, tut.Title+" ("+string(tut.Category)+"): "+tut.Description)
	}

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.SuggestModules(ctx, "nobody")
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("output not matching the schema", func(t *testing.T) {
		defer f.model.Reset()
		f.model.JSON = json.RawMessage(`{"suggestedModules":"Soil Health Basics"}`)

		_, err := f.svc.SuggestModules(ctx, usr.ID)
		var serr *core.ServiceError
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, tutor.ErrSuggestion, serr.Err)
	})
}
