package dig_container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/farmwise/core/catalog"
	"github.com/farmwise/farmwise/testutil"
)

func Test_newRepositories_memory(t *testing.T) {
	ctx := context.Background()
	conf := testutil.NewConfig()
	conf.Database.Engine = "memory"

	repos := newRepositories(conf, DBLoggerParam{Logger: testutil.NewLogger(conf)})
	defer func() { assert.NoError(t, repos.Closer()) }()

	tutorials, err := repos.Catalog.QueryTutorials(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultTutorials(), tutorials)

	lesson, owner, err := repos.Catalog.GetLesson(ctx, "pond-design")
	require.NoError(t, err)
	assert.Equal(t, "intro-fish-farming", owner)
	assert.Equal(t, "Pond Design and Construction", lesson.Title)
}

func Test_seedCatalog_twice(t *testing.T) {
	ctx := context.Background()
	conf := testutil.NewConfig()
	conf.Database.Engine = "memory"
	repos := newRepositories(conf, DBLoggerParam{Logger: testutil.NewLogger(conf)})

	// seeding again replaces tutorials with the same slug
	require.NoError(t, seedCatalog(ctx, repos.Catalog))
	tutorials, err := repos.Catalog.QueryTutorials(ctx)
	require.NoError(t, err)
	assert.Len(t, tutorials, len(catalog.DefaultTutorials()))
}
