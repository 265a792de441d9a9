package auction

import (
	"testing"
	"time"

	"github.com/iov-one/bazaar/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTimedAuction(t *testing.T) {
	Convey("Given an exhibited asset", t, func() {
		env := newTestEnv(t)
		id := env.create(t)
		open := createdAt.Add(10 * time.Minute)
		expired := createdAt.Add(time.Duration(duration) * time.Second)

		Convey("The auction starts at the initial price", func() {
			a := env.auction(t, id)
			So(a.HighestBidder, ShouldResemble, env.exhibitor.Address())
			So(a.Price, ShouldEqual, uint64(100))
			So(a.SellPrice, ShouldEqual, uint64(500))
			So(a.EndAt.Time().Equal(expired), ShouldBeTrue)
			So(env.units(t, env.custody), ShouldEqual, uint64(1))
			So(env.units(t, env.source), ShouldEqual, uint64(0))

			custody, err := env.tokens.Holding(env.db, env.custody)
			So(err, ShouldBeNil)
			custodian, err := LoadCustodian(env.db)
			So(err, ShouldBeNil)
			So(custody.Authority, ShouldResemble, custodian.Address())
		})

		Convey("The exhibitor can cancel before the first bid", func() {
			_, err := env.exec(env.exhibitor, open, env.cancel(id))
			So(err, ShouldBeNil)
			So(env.units(t, env.source), ShouldEqual, uint64(1))

			_, err = env.tokens.Holding(env.db, env.custody)
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
			// The custody deposit is returned.
			So(env.balance(t, env.exhibitor), ShouldEqual, uint64(100))

			Convey("Replaying the cancellation fails", func() {
				_, err := env.exec(env.exhibitor, open, env.cancel(id))
				So(ErrLifecycle.Is(err), ShouldBeTrue)
			})
		})

		Convey("Bids must strictly increase", func() {
			_, err := env.exec(env.bidder1, open, env.bid(id, env.bidder1, 150))
			So(err, ShouldBeNil)
			_, err = env.exec(env.bidder2, open, env.bid(id, env.bidder2, 150))
			So(ErrPriceOrdering.Is(err), ShouldBeTrue)
			_, err = env.exec(env.bidder2, open, env.bid(id, env.bidder2, 200))
			So(err, ShouldBeNil)

			a := env.auction(t, id)
			So(a.Price, ShouldEqual, uint64(200))
			So(a.HighestBidder, ShouldResemble, env.bidder2.Address())

			Convey("The first bidder can bid again once outbid", func() {
				_, err := env.exec(env.bidder1, open, env.bid(id, env.bidder1, 250))
				So(err, ShouldBeNil)
			})

			Convey("The exhibitor cannot cancel anymore", func() {
				_, err := env.exec(env.exhibitor, open, env.cancel(id))
				So(ErrLifecycle.Is(err), ShouldBeTrue)
			})

			Convey("The winner settles after the end", func() {
				msg := env.closeMsg(id, "bidder2")
				_, err := env.exec(env.bidder2, expired.Add(-time.Second), &msg)
				So(ErrTimeWindow.Is(err), ShouldBeTrue)

				_, err = env.exec(env.bidder2, expired, &msg)
				So(err, ShouldBeNil)

				// Exhibitor receives the price and the custody deposit.
				So(env.balance(t, env.exhibitor), ShouldEqual, uint64(90+200+holdingDeposit))
				So(env.balance(t, env.bidder2), ShouldEqual, uint64(990-200))
				So(env.units(t, env.receiving["bidder2"]), ShouldEqual, uint64(1))

				var a Auction
				err = NewBucket().One(env.db, id, &a)
				So(errors.ErrNotFound.Is(err), ShouldBeTrue)

				Convey("Replaying the settlement fails", func() {
					_, err := env.exec(env.bidder2, expired, &msg)
					So(ErrLifecycle.Is(err), ShouldBeTrue)
					So(env.balance(t, env.bidder2), ShouldEqual, uint64(990-200))
				})
			})
		})
	})
}

func TestBuyNowAuction(t *testing.T) {
	Convey("Given an exhibited asset", t, func() {
		env := newTestEnv(t)
		id := env.create(t)
		open := createdAt.Add(10 * time.Minute)

		Convey("A bidder registers the buy now intent", func() {
			_, err := env.exec(env.bidder1, open, env.buyNow(id, env.bidder1, 500))
			So(err, ShouldBeNil)

			a := env.auction(t, id)
			So(a.HighestBidder, ShouldResemble, env.bidder1.Address())
			So(a.SellPrice, ShouldEqual, uint64(500))
			So(a.Price, ShouldEqual, uint64(100))

			Convey("And settles before the end at the sell price", func() {
				msg := &CloseBuyNowMsg{CloseMsg: env.closeMsg(id, "bidder1")}
				_, err := env.exec(env.bidder1, open, msg)
				So(err, ShouldBeNil)

				So(env.balance(t, env.exhibitor), ShouldEqual, uint64(90+500+holdingDeposit))
				So(env.balance(t, env.bidder1), ShouldEqual, uint64(990-500))
				So(env.units(t, env.receiving["bidder1"]), ShouldEqual, uint64(1))

				Convey("Replaying the settlement fails", func() {
					_, err := env.exec(env.bidder1, open, msg)
					So(ErrLifecycle.Is(err), ShouldBeTrue)
				})
			})

			Convey("The timed settlement is still blocked", func() {
				msg := env.closeMsg(id, "bidder1")
				_, err := env.exec(env.bidder1, open, &msg)
				So(ErrTimeWindow.Is(err), ShouldBeTrue)
			})
		})

		Convey("A regular bidder can settle through the buy now path", func() {
			_, err := env.exec(env.bidder2, open, env.bid(id, env.bidder2, 150))
			So(err, ShouldBeNil)

			msg := &CloseBuyNowMsg{CloseMsg: env.closeMsg(id, "bidder2")}
			_, err = env.exec(env.bidder2, open, msg)
			So(err, ShouldBeNil)
			So(env.balance(t, env.bidder2), ShouldEqual, uint64(990-500))
		})
	})
}
