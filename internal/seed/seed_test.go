package seed

import (
	"context"
	"strings"
	"testing"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/repository/memory"
	"mocktest-engine/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[
  {"course_id": "neet-2026", "subjects": [
    {"subject": "physics", "questions": [
      {"id": "p-1", "topic": "kinematics", "difficulty": "easy", "content": "..."},
      {"topic": "optics", "difficulty": "hard", "tags": ["pyq"]}
    ]},
    {"subject": "chemistry", "questions": [
      {"id": "c-1", "difficulty": "medium"}
    ]}
  ]},
  {"course_id": "jee-2026", "subjects": [
    {"subject": "maths", "questions": [{"id": "m-1", "difficulty": "hard"}]}
  ]}
]`

func TestDecode(t *testing.T) {
	qs, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, qs, 4)

	assert.Equal(t, "p-1", qs[0].ID)
	assert.Equal(t, domain.Partition{Subject: "physics", Difficulty: domain.DifficultyEasy}, qs[0].Partition())
	assert.True(t, util.IsULID(qs[1].ID))
	assert.Equal(t, []string{"pyq"}, qs[1].Tags)
	assert.Equal(t, "jee-2026", qs[3].CourseID)
}

func TestDecode_RejectsUnknownDifficulty(t *testing.T) {
	_, err := Decode(strings.NewReader(`[{"course_id":"c1","subjects":[{"subject":"physics","questions":[{"difficulty":"brutal"}]}]}]`))
	assert.ErrorContains(t, err, "brutal")

	_, err = Decode(strings.NewReader(`{"not": "a list"}`))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	qs, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	store := memory.NewStore()
	n, err := Apply(ctx, store.Questions, store.Transaction, qs, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	neet, err := store.Questions.ListByCourse(ctx, "neet-2026")
	require.NoError(t, err)
	assert.Len(t, neet, 3)
}
