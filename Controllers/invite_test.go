package Controllers

import (
	"fmt"
	"strings"
	"testing"

	"TapirTwins/Models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestInviteCodeAlphabet(t *testing.T) {
	code := generateInviteCode(8)
	require.Len(t, code, 8)
	for _, ch := range code {
		assert.True(t, strings.ContainsRune(inviteCodeChars, ch))
	}
}

// The sequence must depend on the source's seed, otherwise every process
// restart would hand out the same codes in the same order
func TestInviteCodeSequenceFollowsSeed(t *testing.T) {
	old := inviteRand
	defer func() { inviteRand = old }()

	inviteRand = rand.New(rand.NewSource(1))
	first := generateInviteCode(8) + generateInviteCode(8)

	inviteRand = rand.New(rand.NewSource(2))
	second := generateInviteCode(8) + generateInviteCode(8)

	assert.NotEqual(t, first, second)

	inviteRand = rand.New(rand.NewSource(1))
	replay := generateInviteCode(8) + generateInviteCode(8)
	assert.Equal(t, first, replay)
}

func TestNewInviteCodeSkipsTakenCodes(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.Space{}, &Models.SpaceMember{}))

	old := inviteRand
	defer func() { inviteRand = old }()

	inviteRand = rand.New(rand.NewSource(42))
	taken := generateInviteCode(8)
	next := generateInviteCode(8)
	require.NotEqual(t, taken, next)

	require.NoError(t, db.Create(&Models.Space{Id: uuid.NewString(), InviteCode: taken}).Error)

	inviteRand = rand.New(rand.NewSource(42))
	assert.Equal(t, next, newInviteCode(db))
}
