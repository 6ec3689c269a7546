package chat

import "context"

// MockSource serves the fixture chat list until the real chat backend ships.
// The fixtures mirror what the first UI prototype displayed.
type MockSource struct{}

func (MockSource) Chats(_ context.Context, _ string) ([]Chat, error) {
	return []Chat{
		{
			ID:          "1",
			Title:       "Новый чат",
			Status:      StatusOpen,
			LastMessage: "Привет!",
		},
		{
			ID:          "2",
			Title:       "Вопрос по математике",
			StudentID:   "1",
			Status:      StatusOpen,
			LastMessage: "Как решить это уравнение?",
		},
	}, nil
}
