package inmemdb

import (
	"sync"

	"github.com/farmwise/farmwise/core/catalog"
	"github.com/farmwise/farmwise/core/tutor"
	"github.com/farmwise/farmwise/core/user"
)

type (
	// DB holds the in-memory tables shared by the repositories of this package.
	DB struct {
		user    *userTable
		catalog *catalogTable
		history *historyTable
	}

	userTable struct {
		table map[string]*user.User // {id: user}
		mutex sync.RWMutex
	}

	catalogTable struct {
		table map[string]*catalog.Tutorial // {slug: tutorial}
		mutex sync.RWMutex
	}

	historyTable struct {
		table map[historyKey][]tutor.ChatMessage
		mutex sync.RWMutex
	}

	historyKey struct {
		userID     string
		lessonSlug string
	}
)

func Open() *DB {
	return &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		catalog: &catalogTable{table: make(map[string]*catalog.Tutorial)},
		history: &historyTable{table: make(map[historyKey][]tutor.ChatMessage)},
	}
}
