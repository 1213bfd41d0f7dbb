package subscription

import (
	"sync"
	"testing"
	"time"

	"github.com/VitaminP8/blogery/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionManager_Subscribe(t *testing.T) {
	t.Run("Should create a subscription channel", func(t *testing.T) {
		manager := NewSubscriptionManager()
		postID := uint(123)

		ch, cancel := manager.Subscribe(postID)
		assert.NotNil(t, ch)
		assert.NotNil(t, cancel)

		manager.mu.Lock()
		subscribers, exists := manager.subs[postID]
		manager.mu.Unlock()
		assert.True(t, exists)
		assert.Len(t, subscribers, 1)

		// Вызываем отмену подписки
		cancel()

		manager.mu.Lock()
		subscribers, exists = manager.subs[postID]
		manager.mu.Unlock()
		assert.True(t, exists)
		assert.Len(t, subscribers, 0)
	})

	t.Run("Multiple subscriptions to the same post", func(t *testing.T) {
		manager := NewSubscriptionManager()
		postID := uint(123)

		// Создаем 3 подписки
		_, cancel1 := manager.Subscribe(postID)
		_, cancel2 := manager.Subscribe(postID)
		_, cancel3 := manager.Subscribe(postID)

		manager.mu.Lock()
		subscribers := manager.subs[postID]
		manager.mu.Unlock()
		assert.Len(t, subscribers, 3)

		// Отменяем вторую подписку
		cancel2()

		manager.mu.Lock()
		subscribers = manager.subs[postID]
		manager.mu.Unlock()
		assert.Len(t, subscribers, 2)

		cancel1()
		cancel3()
	})
}

func TestSubscriptionManager_Publish(t *testing.T) {
	t.Run("Subscriber receives published comment", func(t *testing.T) {
		manager := NewSubscriptionManager()
		postID := uint(7)

		ch, cancel := manager.Subscribe(postID)
		defer cancel()

		comment := &models.Comment{PostID: postID, UserID: 1, Content: "hello"}
		comment.ID = 1
		manager.Publish(postID, comment)

		select {
		case got := <-ch:
			assert.Equal(t, comment.ID, got.ID)
			assert.Equal(t, "hello", got.Content)
		case <-time.After(time.Second):
			t.Fatal("expected a comment on the channel")
		}
	})

	t.Run("Publish to a post without subscribers does not block", func(t *testing.T) {
		manager := NewSubscriptionManager()

		done := make(chan struct{})
		go func() {
			manager.Publish(1, &models.Comment{Content: "nobody listens"})
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("publish should not block without subscribers")
		}
	})

	t.Run("Slow subscriber with a full buffer does not stall the hub", func(t *testing.T) {
		manager := NewSubscriptionManager()
		postID := uint(3)

		ch, cancel := manager.Subscribe(postID)
		defer cancel()

		first := &models.Comment{PostID: postID, Content: "first"}
		first.ID = 1
		second := &models.Comment{PostID: postID, Content: "second"}
		second.ID = 2

		// заполняет буфер подписчика, который никто не читает
		manager.Publish(postID, first)

		done := make(chan struct{})
		go func() {
			manager.Publish(postID, second)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(200 * time.Millisecond):
			t.Fatal("publish should not wait for a slow subscriber")
		}

		// буферизованный комментарий не потерян
		got := <-ch
		assert.Equal(t, "first", got.Content)
	})

	t.Run("All subscribers of the post receive the comment", func(t *testing.T) {
		manager := NewSubscriptionManager()
		postID := uint(5)

		ch1, cancel1 := manager.Subscribe(postID)
		ch2, cancel2 := manager.Subscribe(postID)
		defer cancel1()
		defer cancel2()

		comment := &models.Comment{PostID: postID, Content: "broadcast"}
		comment.ID = 2

		var wg sync.WaitGroup
		wg.Add(2)
		for _, ch := range []<-chan *models.Comment{ch1, ch2} {
			go func(c <-chan *models.Comment) {
				defer wg.Done()
				got := <-c
				require.Equal(t, "broadcast", got.Content)
			}(ch)
		}

		manager.Publish(postID, comment)
		wg.Wait()
	})
}
