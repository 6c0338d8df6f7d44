package service

import (
	"context"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockChatStore mocks the ChatStore interface
type MockChatStore struct {
	mock.Mock
}

func (m *MockChatStore) CreateRoom(ctx context.Context, in domain.NewRoom) (domain.Room, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockChatStore) DeleteRoom(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChatStore) SetActiveRoom(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChatStore) SendMessage(ctx context.Context, in domain.MessageInput) (domain.Message, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Message), args.Error(1)
}

func (m *MockChatStore) Rooms() []domain.Room {
	args := m.Called()
	return args.Get(0).([]domain.Room)
}

func (m *MockChatStore) ActiveRoomID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockChatStore) ActiveRoom() (domain.Room, bool) {
	args := m.Called()
	return args.Get(0).(domain.Room), args.Bool(1)
}

func (m *MockChatStore) RoomByID(id string) (domain.Room, bool) {
	args := m.Called(id)
	return args.Get(0).(domain.Room), args.Bool(1)
}

// MockReplyScheduler mocks the ReplyScheduler interface
type MockReplyScheduler struct {
	mock.Mock
}

func (m *MockReplyScheduler) Start(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *MockReplyScheduler) Cancel(roomID string) {
	m.Called(roomID)
}

func (m *MockReplyScheduler) CancelAll() {
	m.Called()
}

// MockSessionResetter mocks the SessionResetter interface
type MockSessionResetter struct {
	mock.Mock
}

func (m *MockSessionResetter) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
