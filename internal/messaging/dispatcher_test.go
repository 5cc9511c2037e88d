package messaging_test

import (
	"log/slog"
	"os"
	"sync"

	"github.com/campussrc/src-portal/internal"
	"github.com/campussrc/src-portal/internal/messaging"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BroadcastDispatcher", func() {
	var lg *slog.Logger

	BeforeEach(func() {
		lg = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	It("should process enqueued jobs through the worker pool", func() {
		var mu sync.Mutex
		var processed []messaging.BroadcastJob

		dispatcher := messaging.NewBroadcastDispatcher(internal.MessagingConfig{MaxWorkers: 2}, lg, func(job messaging.BroadcastJob) {
			mu.Lock()
			defer mu.Unlock()
			processed = append(processed, job)
		})

		for i := 0; i < 5; i++ {
			Expect(dispatcher.Enqueue(messaging.BroadcastJob{BatchID: "batch-1", Phone: "27821230001"})).To(Succeed())
		}

		Eventually(func() int {
			mu.Lock()
			defer mu.Unlock()
			return len(processed)
		}).Should(Equal(5))

		dispatcher.Shutdown()
	})

	It("should shut down cleanly immediately after start", func() {
		dispatcher := messaging.NewBroadcastDispatcher(internal.MessagingConfig{}, lg, nil)

		done := make(chan struct{})
		go func() {
			dispatcher.Shutdown()
			close(done)
		}()

		Eventually(done).Should(BeClosed())
	})

	It("should reject jobs when the queue is full", func() {
		dispatcher := messaging.NewBroadcastDispatcher(internal.MessagingConfig{MaxWorkers: 1, JobQueueSize: 1}, lg, nil)
		dispatcher.Shutdown()

		// the pool is stopped, so the second job cannot drain
		_ = dispatcher.Enqueue(messaging.BroadcastJob{BatchID: "batch-1"})
		err := dispatcher.Enqueue(messaging.BroadcastJob{BatchID: "batch-1"})
		Expect(err).To(HaveOccurred())
	})
})
