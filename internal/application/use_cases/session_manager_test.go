package use_cases

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	domainErrors "github.com/yuzvak/fulfillment-service/internal/domain/errors"
)

func newManagerFixture() *SessionManager {
	return NewSessionManager(
		newFakeStock(),
		newFakeOrders(),
		newFakeCache(),
		&fakeAudit{},
		&notificationLog{},
		testLogger(),
	)
}

func TestSessionManagerCreateAndGet(t *testing.T) {
	m := newManagerFixture()

	session := m.Create()
	assert.NotEqual(t, "", session.ID())

	got, err := m.Get(session.ID())
	assert.NoError(t, err)
	assert.Equal(t, session.ID(), got.ID())
	assert.Equal(t, 1, m.Count())
}

func TestSessionManagerGetUnknown(t *testing.T) {
	m := newManagerFixture()

	_, err := m.Get("no-such-session")
	assert.IsError(t, err, domainErrors.ErrSessionNotFound)
}

func TestSessionManagerClose(t *testing.T) {
	m := newManagerFixture()
	session := m.Create()

	assert.NoError(t, m.Close(session.ID()))
	assert.Equal(t, 0, m.Count())

	assert.IsError(t, m.Close(session.ID()), domainErrors.ErrSessionNotFound)
}

func TestSessionManagerSessionsAreIndependent(t *testing.T) {
	m := newManagerFixture()

	a := m.Create()
	b := m.Create()

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, m.Count())
}
