package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedSet(t *testing.T) {
	var s OrderedSet
	assert.Equal(t, "{}", s.String())

	assert.True(t, s.Add("bob"))
	assert.True(t, s.Add("carol"))
	assert.False(t, s.Add("bob"))
	assert.Equal(t, "{bob,carol}", s.String())

	s.Replace("bob", "robert")
	assert.Equal(t, OrderedSet{"robert", "carol"}, s)

	s.Replace("robert", "carol")
	assert.Equal(t, OrderedSet{"carol"}, s)

	assert.False(t, s.Remove("nobody"))
	assert.True(t, s.Remove("carol"))
	assert.Empty(t, s)
}

func TestOrderedSetCloneIsIndependent(t *testing.T) {
	s := OrderedSet{"a", "b"}
	c := s.Clone()
	c.Remove("a")

	assert.Equal(t, OrderedSet{"a", "b"}, s)
	assert.Equal(t, OrderedSet{"b"}, c)
}

func TestMessageQueueFIFO(t *testing.T) {
	var q MessageQueue
	q.Push(Message{From: "a", Body: "1"})
	q.Push(Message{From: "b", Body: "2"})
	q.Push(Message{From: "a", Body: "3"})

	q.DropFrom("a")
	assert.Equal(t, 1, q.Len())

	m, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "2", m.Body)

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestSystemNoticesSurviveSenderNamedLikeSystem(t *testing.T) {
	var q MessageQueue
	q.Push(Message{From: SystemSender, To: "alice", Body: "notice", System: true})
	q.Push(Message{From: SystemSender, To: "alice", Body: "direct"})

	q.RenameParty(SystemSender, "jack")
	assert.Equal(t, SystemSender, q[0].From)
	assert.Equal(t, "jack", q[1].From)

	q.DropFrom("jack")
	q.DropFrom(SystemSender)
	require.Equal(t, 1, q.Len())
	assert.Equal(t, "notice", q[0].Body)
}

func TestUserForgetAndRename(t *testing.T) {
	u := &User{Login: "alice"}
	u.Friends.Add("bob")
	u.Enemies.Add("bob")
	u.Inbox.Push(Message{From: "bob", To: "alice", Body: "hi"})
	u.Inbox.Push(Message{From: "carol", To: "alice", Body: "yo"})

	u.RenameReferences("carol", "caroline")
	assert.Equal(t, "caroline", u.Inbox[1].From)

	u.Forget("bob")
	assert.Empty(t, u.Friends)
	assert.Empty(t, u.Enemies)
	assert.Equal(t, 1, u.Inbox.Len())
}
