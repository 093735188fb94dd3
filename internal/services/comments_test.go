package services

import (
	"testing"
	"time"

	"linkden/internal/db"
	"linkden/internal/errors"
	"linkden/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentCount(t *testing.T, linkID uint) int {
	t.Helper()
	var link models.Link
	require.NoError(t, db.DB.First(&link, linkID).Error)
	return link.CommentCount
}

func TestPostCommentRoot(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	commenter := createTestUser(t, "commenter")
	link := createTestLink(t, author.ID, "first", time.Now())

	comment, err := PostComment(commenter.ID, link.ID, nil, "nice find")
	require.NoError(t, err)
	assert.Nil(t, comment.ParentID)
	assert.Equal(t, link.ID, comment.LinkID)
	assert.Equal(t, 1, commentCount(t, link.ID))
}

func TestPostCommentChild(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	link := createTestLink(t, author.ID, "first", time.Now())
	root := createTestComment(t, author.ID, link.ID, nil, "root")

	child, err := PostComment(author.ID, link.ID, &root.ID, "reply")
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)
	assert.Equal(t, 2, commentCount(t, link.ID))
}

func TestPostCommentEmptyContent(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	link := createTestLink(t, author.ID, "first", time.Now())

	_, err := PostComment(author.ID, link.ID, nil, "   ")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeValidation))
	assert.Equal(t, 0, commentCount(t, link.ID))
}

func TestPostCommentMissingLink(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")

	_, err := PostComment(author.ID, 999, nil, "hello")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestPostCommentMissingParent(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	link := createTestLink(t, author.ID, "first", time.Now())

	missing := uint(999)
	_, err := PostComment(author.ID, link.ID, &missing, "orphan")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeValidation))

	// Validation failures leave no trace: no row, no count bump.
	assert.Equal(t, 0, commentCount(t, link.ID))
	var count int64
	require.NoError(t, db.DB.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostCommentCrossLinkParent(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	linkA := createTestLink(t, author.ID, "a", time.Now())
	linkB := createTestLink(t, author.ID, "b", time.Now())
	parent := createTestComment(t, author.ID, linkA.ID, nil, "on a")

	_, err := PostComment(author.ID, linkB.ID, &parent.ID, "wrong thread")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeValidation))
	assert.Contains(t, err.Error(), "does not belong to this link")
	assert.Equal(t, 0, commentCount(t, linkB.ID))
}

func TestRootCommentsOrder(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	link := createTestLink(t, author.ID, "first", time.Now())

	low := createTestComment(t, author.ID, link.ID, nil, "low")
	high := createTestComment(t, author.ID, link.ID, nil, "high")
	reply := createTestComment(t, author.ID, link.ID, &high.ID, "reply")
	setCommentScore(t, low.ID, 1)
	setCommentScore(t, high.ID, 7)

	roots, err := RootComments(link.ID)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, high.ID, roots[0].ID)
	assert.Equal(t, low.ID, roots[1].ID)
	// Replies never appear at the root level.
	for _, c := range roots {
		assert.NotEqual(t, reply.ID, c.ID)
	}
}

func TestChildrenOrder(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	link := createTestLink(t, author.ID, "first", time.Now())

	c1 := createTestComment(t, author.ID, link.ID, nil, "root")
	c2 := createTestComment(t, author.ID, link.ID, &c1.ID, "second child")
	c3 := createTestComment(t, author.ID, link.ID, &c1.ID, "third child")
	setCommentScore(t, c2.ID, 5)
	setCommentScore(t, c3.ID, 3)

	children, err := Children(c1.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, c2.ID, children[0].ID)
	assert.Equal(t, c3.ID, children[1].ID)
}

func TestChildrenTieBreaksOldestFirst(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	link := createTestLink(t, author.ID, "first", time.Now())
	root := createTestComment(t, author.ID, link.ID, nil, "root")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	older := models.Comment{LinkID: link.ID, UserID: author.ID, ParentID: &root.ID, Content: "older", CreatedAt: base}
	newer := models.Comment{LinkID: link.ID, UserID: author.ID, ParentID: &root.ID, Content: "newer", CreatedAt: base.Add(time.Minute)}
	require.NoError(t, db.DB.Create(&newer).Error)
	require.NoError(t, db.DB.Create(&older).Error)

	children, err := Children(root.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, older.ID, children[0].ID)
	assert.Equal(t, newer.ID, children[1].ID)
}

func TestChildrenMissingComment(t *testing.T) {
	setupTestDB(t)

	_, err := Children(999)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestRootCommentsMissingLink(t *testing.T) {
	setupTestDB(t)

	_, err := RootComments(999)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestDepth(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	link := createTestLink(t, author.ID, "first", time.Now())

	root := createTestComment(t, author.ID, link.ID, nil, "root")
	child := createTestComment(t, author.ID, link.ID, &root.ID, "child")
	grandchild := createTestComment(t, author.ID, link.ID, &child.ID, "grandchild")

	for want, comment := range map[int]models.Comment{0: root, 1: child, 2: grandchild} {
		got, err := Depth(&comment)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestThread(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author")
	link := createTestLink(t, author.ID, "first", time.Now())

	rootA := createTestComment(t, author.ID, link.ID, nil, "root a")
	rootB := createTestComment(t, author.ID, link.ID, nil, "root b")
	childA1 := createTestComment(t, author.ID, link.ID, &rootA.ID, "child a1")
	childA2 := createTestComment(t, author.ID, link.ID, &rootA.ID, "child a2")
	grand := createTestComment(t, author.ID, link.ID, &childA1.ID, "grand")
	setCommentScore(t, rootB.ID, 9)
	setCommentScore(t, childA2.ID, 4)

	thread, err := Thread(link.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)

	// Best root first, depths annotated per level.
	assert.Equal(t, rootB.ID, thread[0].ID)
	assert.Equal(t, 0, thread[0].Depth)

	a := thread[1]
	require.Len(t, a.Children, 2)
	assert.Equal(t, childA2.ID, a.Children[0].ID) // higher score first
	assert.Equal(t, childA1.ID, a.Children[1].ID)
	assert.Equal(t, 1, a.Children[0].Depth)

	require.Len(t, a.Children[1].Children, 1)
	assert.Equal(t, grand.ID, a.Children[1].Children[0].ID)
	assert.Equal(t, 2, a.Children[1].Children[0].Depth)
}
