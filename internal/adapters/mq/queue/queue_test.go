package queue_test

import (
	"context"
	"testing"

	"github.com/blakkis/promille/internal/adapters/mq/queue"
	"github.com/blakkis/promille/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

// queueSizeGauge reads the announce queue size gauge off the scrape registry.
func queueSizeGauge() float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() == "blakkis_engine_announce_queue_size" {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return -1
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a bounded announcement queue", t, func() {
		ctx := context.Background()

		Convey("When enqueuing within capacity", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))
			ok := q.Enqueue(ctx, queue.Announcement{GroupID: "g1", DisplayName: "Aino", Count: 100})

			Convey("Then the announcement is accepted and dequeueable", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
				a := <-q.Dequeue(ctx)
				So(a.GroupID, ShouldEqual, "g1")
				So(a.Count, ShouldEqual, 100)
			})
		})

		Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(1))
			So(q.Enqueue(ctx, queue.Announcement{Count: 100}), ShouldBeTrue)

			Convey("Then further announcements are dropped, not blocked on", func() {
				So(q.Enqueue(ctx, queue.Announcement{Count: 200}), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the queue is observed after a drain", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))
			So(q.Enqueue(ctx, queue.Announcement{GroupID: "g1", Count: 100}), ShouldBeTrue)
			sizeAtEnqueue := queueSizeGauge()
			<-q.Dequeue(ctx)

			Convey("Then Len reports the live size without touching the gauge", func() {
				So(q.Len(ctx), ShouldEqual, 0)
				So(q.Len(ctx), ShouldEqual, 0)
				So(queueSizeGauge(), ShouldEqual, sizeAtEnqueue)
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue()
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues are rejected and the channel drains closed", func() {
				So(q.Enqueue(ctx, queue.Announcement{Count: 100}), ShouldBeFalse)
				_, open := <-q.Dequeue(ctx)
				So(open, ShouldBeFalse)
			})

			Convey("Then closing again is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
