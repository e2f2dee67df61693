package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/asset-exchange/backend/internal/escrow"
	"github.com/asset-exchange/backend/internal/events"
	"github.com/asset-exchange/backend/internal/ledger"
	"github.com/asset-exchange/backend/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const custody = models.Address("exchange:custody")

func amt(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	engine   *Engine
	registry *ledger.Registry
	payments *ledger.Payments
	escrow   *escrow.Ledger
	sink     *events.Memory
	clock    *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		registry: ledger.NewRegistry(),
		payments: ledger.NewPayments(custody),
		escrow:   escrow.NewLedger(),
		sink:     events.NewMemory(),
		clock:    newFakeClock(),
	}
	f.engine = New(f.registry, f.payments, f.escrow, f.sink, custody, zap.NewNop(), WithClock(f.clock.Now))
	return f
}

func (f *fixture) mint(t *testing.T, owner models.Address) uint64 {
	t.Helper()
	id, err := f.engine.Mint(context.Background(), owner, "asset", "", "art")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return id
}

func (f *fixture) fund(addr models.Address, balance, allowance int64) {
	f.payments.Deposit(addr, amt(balance))
	f.payments.Approve(addr, amt(allowance))
}

func TestMintAssignsMonotonicIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for want := uint64(0); want < 3; want++ {
		id, err := f.engine.Mint(ctx, "creator", "a", "d", "c")
		if err != nil {
			t.Fatalf("mint %d: %v", want, err)
		}
		if id != want {
			t.Errorf("mint id = %d, want %d", id, want)
		}
	}

	owner, err := f.registry.OwnerOf(2)
	if err != nil || owner != "creator" {
		t.Errorf("registry owner of 2 = %q, %v", owner, err)
	}
	asset, err := f.engine.GetDetails(1)
	if err != nil || asset.Creator != "creator" {
		t.Errorf("GetDetails(1) = %+v, %v", asset, err)
	}
}

// Scenario A: fixed-price sale moves asset and funds and closes the listing.
func TestFixedPriceSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.mint(t, "seller")
	if err := f.engine.List(ctx, "seller", id, amt(100)); err != nil {
		t.Fatalf("list: %v", err)
	}
	f.fund("buyer", 150, 100)

	if err := f.engine.Buy(ctx, "buyer", id); err != nil {
		t.Fatalf("buy: %v", err)
	}

	owner, _ := f.registry.OwnerOf(id)
	if owner != "buyer" {
		t.Errorf("owner after buy = %q, want buyer", owner)
	}
	if got := f.payments.BalanceOf("seller"); !got.Equal(amt(100)) {
		t.Errorf("seller balance = %s, want 100", got)
	}
	if got := f.payments.BalanceOf("buyer"); !got.Equal(amt(50)) {
		t.Errorf("buyer balance = %s, want 50", got)
	}
	listing, err := f.engine.GetListing(id)
	if err != nil || listing.Active {
		t.Errorf("listing after buy = %+v, %v, want inactive", listing, err)
	}

	// historical index keeps the id even after the sale
	listed := f.engine.Listed()
	if len(listed) != 1 || listed[0] != id {
		t.Errorf("ever-listed index = %v, want [%d]", listed, id)
	}
}

// Scenario C: buying an unlisted asset changes nothing.
func TestBuyNotListed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.mint(t, "seller")
	f.fund("buyer", 150, 150)

	if err := f.engine.Buy(ctx, "buyer", id); !errors.Is(err, ErrNotListed) {
		t.Fatalf("buy unlisted = %v, want ErrNotListed", err)
	}
	if owner, _ := f.registry.OwnerOf(id); owner != "seller" {
		t.Errorf("owner changed to %q on failed buy", owner)
	}
	if got := f.payments.BalanceOf("buyer"); !got.Equal(amt(150)) {
		t.Errorf("buyer balance changed to %s on failed buy", got)
	}
}

func TestBuyInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.mint(t, "seller")
	if err := f.engine.List(ctx, "seller", id, amt(100)); err != nil {
		t.Fatalf("list: %v", err)
	}
	f.fund("buyer", 40, 100)

	if err := f.engine.Buy(ctx, "buyer", id); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("buy = %v, want ErrInsufficientBalance", err)
	}
}

func TestListValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")

	if err := f.engine.List(ctx, "stranger", id, amt(10)); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("list by non-owner = %v, want ErrUnauthorized", err)
	}
	if err := f.engine.List(ctx, "seller", id, amt(0)); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("list at zero = %v, want ErrInvalidPrice", err)
	}
	if err := f.engine.List(ctx, "seller", 99, amt(10)); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("list unknown asset = %v, want ErrAssetNotFound", err)
	}

	if err := f.engine.List(ctx, "seller", id, amt(10)); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := f.engine.List(ctx, "seller", id, amt(20)); !errors.Is(err, ErrAlreadyListed) {
		t.Errorf("second list = %v, want ErrAlreadyListed", err)
	}
}

func TestListRejectedDuringAuction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")
	now := f.clock.Now()

	if err := f.engine.CreateAuction(ctx, "seller", id, now.Add(10*time.Second), now.Add(100*time.Second), amt(10)); err != nil {
		t.Fatalf("create auction: %v", err)
	}
	if err := f.engine.List(ctx, "seller", id, amt(10)); !errors.Is(err, ErrAuctionExists) {
		t.Errorf("list during auction = %v, want ErrAuctionExists", err)
	}
}

func TestCreateAuctionValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")
	now := f.clock.Now()
	start, end := now.Add(10*time.Second), now.Add(100*time.Second)

	if err := f.engine.CreateAuction(ctx, "stranger", id, start, end, amt(10)); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("create by non-owner = %v, want ErrUnauthorized", err)
	}
	if err := f.engine.CreateAuction(ctx, "seller", id, end, start, amt(10)); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("inverted window = %v, want ErrInvalidWindow", err)
	}
	if err := f.engine.CreateAuction(ctx, "seller", id, now, end, amt(10)); !errors.Is(err, ErrInvalidStart) {
		t.Errorf("start not in future = %v, want ErrInvalidStart", err)
	}

	if err := f.engine.List(ctx, "seller", id, amt(5)); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := f.engine.CreateAuction(ctx, "seller", id, start, end, amt(10)); !errors.Is(err, ErrAlreadyListed) {
		t.Errorf("auction on listed asset = %v, want ErrAlreadyListed", err)
	}
}

func TestCreateAuctionRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")
	now := f.clock.Now()
	start, end := now.Add(10*time.Second), now.Add(100*time.Second)

	if err := f.engine.CreateAuction(ctx, "seller", id, start, end, amt(10)); err != nil {
		t.Fatalf("create auction: %v", err)
	}
	if err := f.engine.CreateAuction(ctx, "seller", id, end.Add(time.Hour), end.Add(2*time.Hour), amt(10)); !errors.Is(err, ErrAuctionExists) {
		t.Errorf("overlapping auction = %v, want ErrAuctionExists", err)
	}
}

// Scenario B: the full auction life cycle.
func TestAuctionLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")
	now := f.clock.Now()

	if err := f.engine.CreateAuction(ctx, "seller", id, now.Add(10*time.Second), now.Add(100*time.Second), amt(10)); err != nil {
		t.Fatalf("create auction: %v", err)
	}

	f.fund("bidder1", 100, 100)
	f.fund("bidder2", 100, 100)

	f.clock.Advance(20 * time.Second) // T+20
	if err := f.engine.PlaceBid(ctx, "bidder1", id, amt(10)); err != nil {
		t.Fatalf("first bid: %v", err)
	}

	f.clock.Advance(10 * time.Second) // T+30
	if err := f.engine.PlaceBid(ctx, "bidder2", id, amt(10)); !errors.Is(err, ErrBidTooLow) {
		t.Fatalf("equal bid = %v, want ErrBidTooLow", err)
	}

	f.clock.Advance(10 * time.Second) // T+40
	if err := f.engine.PlaceBid(ctx, "bidder2", id, amt(15)); err != nil {
		t.Fatalf("second bid: %v", err)
	}
	if got := f.escrow.Balance("bidder1"); !got.Equal(amt(10)) {
		t.Errorf("bidder1 escrow = %s, want 10", got)
	}

	withdrawn, err := f.engine.Withdraw(ctx, "bidder1")
	if err != nil || !withdrawn.Equal(amt(10)) {
		t.Fatalf("withdraw = %s, %v, want 10", withdrawn, err)
	}
	if got := f.escrow.Balance("bidder1"); !got.IsZero() {
		t.Errorf("bidder1 escrow after withdraw = %s, want 0", got)
	}
	if got := f.payments.BalanceOf("bidder1"); !got.Equal(amt(100)) {
		t.Errorf("bidder1 balance after refund = %s, want 100", got)
	}

	f.clock.Advance(61 * time.Second) // T+101
	if err := f.engine.EndAuction(ctx, id); err != nil {
		t.Fatalf("end auction: %v", err)
	}

	owner, _ := f.registry.OwnerOf(id)
	if owner != "bidder2" {
		t.Errorf("owner after settlement = %q, want bidder2", owner)
	}
	if got := f.payments.BalanceOf("seller"); !got.Equal(amt(15)) {
		t.Errorf("seller balance = %s, want 15", got)
	}
	auction, _ := f.engine.GetAuction(id)
	if !auction.Settled || !auction.FinalPrice.Equal(amt(15)) {
		t.Errorf("auction record = settled %v final %s, want settled 15", auction.Settled, auction.FinalPrice)
	}
	if len(auction.Bids) != 2 {
		t.Errorf("bid history length = %d, want 2", len(auction.Bids))
	}

	if err := f.engine.EndAuction(ctx, id); !errors.Is(err, ErrAlreadySettled) {
		t.Errorf("second end = %v, want ErrAlreadySettled", err)
	}
}

func TestBidOutsideWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")
	now := f.clock.Now()
	f.fund("bidder", 100, 100)

	if err := f.engine.CreateAuction(ctx, "seller", id, now.Add(10*time.Second), now.Add(100*time.Second), amt(10)); err != nil {
		t.Fatalf("create auction: %v", err)
	}

	if err := f.engine.PlaceBid(ctx, "bidder", id, amt(10)); !errors.Is(err, ErrAuctionNotOpen) {
		t.Errorf("bid before start = %v, want ErrAuctionNotOpen", err)
	}

	f.clock.Advance(101 * time.Second)
	if err := f.engine.PlaceBid(ctx, "bidder", id, amt(10)); !errors.Is(err, ErrAuctionNotOpen) {
		t.Errorf("bid after end = %v, want ErrAuctionNotOpen", err)
	}
}

func TestBidBelowMinimum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")
	now := f.clock.Now()
	f.fund("bidder", 100, 100)

	if err := f.engine.CreateAuction(ctx, "seller", id, now.Add(10*time.Second), now.Add(100*time.Second), amt(10)); err != nil {
		t.Fatalf("create auction: %v", err)
	}
	f.clock.Advance(20 * time.Second)

	if err := f.engine.PlaceBid(ctx, "bidder", id, amt(9)); !errors.Is(err, ErrBidTooLow) {
		t.Errorf("bid below minimum = %v, want ErrBidTooLow", err)
	}
	auction, _ := f.engine.GetAuction(id)
	if auction.HasBid() || len(auction.Bids) != 0 {
		t.Error("rejected bid mutated auction state")
	}
}

func TestBidPullFailureRollsBackEscrowCredit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")
	now := f.clock.Now()

	if err := f.engine.CreateAuction(ctx, "seller", id, now.Add(10*time.Second), now.Add(100*time.Second), amt(10)); err != nil {
		t.Fatalf("create auction: %v", err)
	}
	f.fund("bidder1", 100, 100)
	f.payments.Deposit("bidder2", amt(100)) // no allowance: pull will fail

	f.clock.Advance(20 * time.Second)
	if err := f.engine.PlaceBid(ctx, "bidder1", id, amt(10)); err != nil {
		t.Fatalf("first bid: %v", err)
	}
	if err := f.engine.PlaceBid(ctx, "bidder2", id, amt(20)); !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("unfunded bid = %v, want ErrTransferFailed", err)
	}

	// the interim escrow credit for bidder1 must be rolled back
	if got := f.escrow.Balance("bidder1"); !got.IsZero() {
		t.Errorf("bidder1 escrow after aborted bid = %s, want 0", got)
	}
	auction, _ := f.engine.GetAuction(id)
	if auction.HighestBidder != "bidder1" || !auction.HighestBid.Equal(amt(10)) {
		t.Errorf("highest bid after aborted outbid = %q/%s, want bidder1/10",
			auction.HighestBidder, auction.HighestBid)
	}
}

func TestWithdrawNoFunds(t *testing.T) {
	f := newFixture(t)
	if _, err := f.engine.Withdraw(context.Background(), "nobody"); !errors.Is(err, ErrNoFunds) {
		t.Errorf("withdraw with no escrow = %v, want ErrNoFunds", err)
	}
}

// failingPayments wraps the in-memory ledger and fails custody payouts on demand.
type failingPayments struct {
	*ledger.Payments
	failTransfer bool
}

func (p *failingPayments) Transfer(to models.Address, amount decimal.Decimal) error {
	if p.failTransfer {
		return errors.New("ledger unavailable")
	}
	return p.Payments.Transfer(to, amount)
}

func TestWithdrawPayoutFailureRestoresBalance(t *testing.T) {
	payments := &failingPayments{Payments: ledger.NewPayments(custody)}
	registry := ledger.NewRegistry()
	esc := escrow.NewLedger()
	clock := newFakeClock()
	eng := New(registry, payments, esc, events.NewMemory(), custody, zap.NewNop(), WithClock(clock.Now))
	ctx := context.Background()

	esc.Credit("bidder1", amt(10))
	payments.Deposit(custody, amt(10))

	payments.failTransfer = true
	if _, err := eng.Withdraw(ctx, "bidder1"); !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("withdraw with failing payout = %v, want ErrTransferFailed", err)
	}
	if got := esc.Balance("bidder1"); !got.Equal(amt(10)) {
		t.Errorf("escrow after failed payout = %s, want 10 restored", got)
	}

	payments.failTransfer = false
	if withdrawn, err := eng.Withdraw(ctx, "bidder1"); err != nil || !withdrawn.Equal(amt(10)) {
		t.Errorf("retried withdraw = %s, %v, want 10", withdrawn, err)
	}
}

func TestNoBidSettlement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")
	now := f.clock.Now()

	if err := f.engine.CreateAuction(ctx, "seller", id, now.Add(10*time.Second), now.Add(100*time.Second), amt(10)); err != nil {
		t.Fatalf("create auction: %v", err)
	}
	f.clock.Advance(101 * time.Second)

	if err := f.engine.EndAuction(ctx, id); err != nil {
		t.Fatalf("end auction: %v", err)
	}
	if owner, _ := f.registry.OwnerOf(id); owner != "seller" {
		t.Errorf("owner after no-bid settlement = %q, want seller", owner)
	}
	if got := f.payments.BalanceOf("seller"); !got.IsZero() {
		t.Errorf("seller balance after no-bid settlement = %s, want 0", got)
	}
	if err := f.engine.EndAuction(ctx, id); !errors.Is(err, ErrAlreadySettled) {
		t.Errorf("second end = %v, want ErrAlreadySettled", err)
	}
}

func TestEndAuctionNotYetEnded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")
	now := f.clock.Now()

	if err := f.engine.CreateAuction(ctx, "seller", id, now.Add(10*time.Second), now.Add(100*time.Second), amt(10)); err != nil {
		t.Fatalf("create auction: %v", err)
	}
	f.clock.Advance(50 * time.Second)
	if err := f.engine.EndAuction(ctx, id); !errors.Is(err, ErrNotYetEnded) {
		t.Errorf("early end = %v, want ErrNotYetEnded", err)
	}
}

func TestEndAuctionSellerNoLongerOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")
	now := f.clock.Now()
	f.fund("bidder", 100, 100)

	if err := f.engine.CreateAuction(ctx, "seller", id, now.Add(10*time.Second), now.Add(100*time.Second), amt(10)); err != nil {
		t.Fatalf("create auction: %v", err)
	}
	f.clock.Advance(20 * time.Second)
	if err := f.engine.PlaceBid(ctx, "bidder", id, amt(10)); err != nil {
		t.Fatalf("bid: %v", err)
	}

	// seller disposes of the asset outside the engine mid-auction
	if err := f.registry.Transfer("seller", "elsewhere", id); err != nil {
		t.Fatalf("out-of-band transfer: %v", err)
	}

	f.clock.Advance(100 * time.Second)
	if err := f.engine.EndAuction(ctx, id); !errors.Is(err, ErrSellerNoLongerOwner) {
		t.Errorf("end after disposal = %v, want ErrSellerNoLongerOwner", err)
	}
	auction, _ := f.engine.GetAuction(id)
	if auction.Settled {
		t.Error("auction settled despite failed ownership check")
	}
}

// reentrantPayments calls back into the engine from inside a transfer,
// imitating a malicious payment token.
type reentrantPayments struct {
	*ledger.Payments
	engine  *Engine
	assetID uint64
	caller  models.Address
	inner   error
	fired   bool
}

func (p *reentrantPayments) TransferFrom(from, to models.Address, amount decimal.Decimal) error {
	if !p.fired {
		p.fired = true
		p.inner = p.engine.Buy(context.Background(), p.caller, p.assetID)
	}
	return p.Payments.TransferFrom(from, to, amount)
}

// Scenario D: a re-entrant buy from within the payment callback is rejected
// before it can touch any state.
func TestReentrantBuyRejected(t *testing.T) {
	payments := &reentrantPayments{Payments: ledger.NewPayments(custody), caller: "buyer"}
	registry := ledger.NewRegistry()
	esc := escrow.NewLedger()
	sink := events.NewMemory()
	clock := newFakeClock()
	eng := New(registry, payments, esc, sink, custody, zap.NewNop(), WithClock(clock.Now))
	payments.engine = eng
	ctx := context.Background()

	id, err := eng.Mint(ctx, "seller", "asset", "", "")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	payments.assetID = id
	if err := eng.List(ctx, "seller", id, amt(100)); err != nil {
		t.Fatalf("list: %v", err)
	}
	payments.Deposit("buyer", amt(200))
	payments.Approve("buyer", amt(200))

	if err := eng.Buy(ctx, "buyer", id); err != nil {
		t.Fatalf("outer buy: %v", err)
	}
	if !errors.Is(payments.inner, ErrReentrantCall) {
		t.Errorf("re-entrant buy = %v, want ErrReentrantCall", payments.inner)
	}

	// exactly one sale happened
	if got := payments.BalanceOf("buyer"); !got.Equal(amt(100)) {
		t.Errorf("buyer balance = %s, want 100 (single sale)", got)
	}
	sold := 0
	for _, ev := range sink.All() {
		if ev.Type == events.EventSold {
			sold++
		}
	}
	if sold != 1 {
		t.Errorf("sold events = %d, want 1", sold)
	}
}

// Conservation: escrow total + live custody + payouts == everything ever
// pulled from bidders.
func TestEscrowConservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")
	now := f.clock.Now()

	if err := f.engine.CreateAuction(ctx, "seller", id, now.Add(10*time.Second), now.Add(100*time.Second), amt(10)); err != nil {
		t.Fatalf("create auction: %v", err)
	}
	for _, b := range []models.Address{"b1", "b2", "b3"} {
		f.fund(b, 100, 100)
	}

	f.clock.Advance(20 * time.Second)
	pulled := decimal.Zero
	for i, bid := range []struct {
		bidder models.Address
		amount int64
	}{{"b1", 10}, {"b2", 15}, {"b3", 20}} {
		if err := f.engine.PlaceBid(ctx, bid.bidder, id, amt(bid.amount)); err != nil {
			t.Fatalf("bid %d: %v", i, err)
		}
		pulled = pulled.Add(amt(bid.amount))
	}

	paidOut := decimal.Zero
	withdrawn, err := f.engine.Withdraw(ctx, "b1")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	paidOut = paidOut.Add(withdrawn)

	f.clock.Advance(100 * time.Second)
	if err := f.engine.EndAuction(ctx, id); err != nil {
		t.Fatalf("end auction: %v", err)
	}
	paidOut = paidOut.Add(f.payments.BalanceOf("seller"))

	total := f.escrow.Total().Add(f.payments.BalanceOf(custody)).Add(paidOut)
	if !total.Equal(pulled) {
		t.Errorf("escrow %s + custody %s + payouts %s != pulled %s",
			f.escrow.Total(), f.payments.BalanceOf(custody), paidOut, pulled)
	}
	// b2 is still owed their outbid amount
	if got := f.escrow.Balance("b2"); !got.Equal(amt(15)) {
		t.Errorf("b2 escrow = %s, want 15", got)
	}
}

func TestOneEventPerSuccessfulOperation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, "seller")
	now := f.clock.Now()

	if err := f.engine.CreateAuction(ctx, "seller", id, now.Add(10*time.Second), now.Add(100*time.Second), amt(10)); err != nil {
		t.Fatalf("create auction: %v", err)
	}
	f.fund("bidder", 100, 100)
	f.clock.Advance(20 * time.Second)
	if err := f.engine.PlaceBid(ctx, "bidder", id, amt(10)); err != nil {
		t.Fatalf("bid: %v", err)
	}
	// a failing operation emits nothing
	if err := f.engine.PlaceBid(ctx, "bidder", id, amt(10)); !errors.Is(err, ErrBidTooLow) {
		t.Fatalf("duplicate bid = %v, want ErrBidTooLow", err)
	}
	f.clock.Advance(100 * time.Second)
	if err := f.engine.EndAuction(ctx, id); err != nil {
		t.Fatalf("end: %v", err)
	}

	want := []string{
		events.EventMinted,
		events.EventAuctionCreated,
		events.EventBidPlaced,
		events.EventAuctionEnded,
	}
	got := f.sink.All()
	if len(got) != len(want) {
		t.Fatalf("event count = %d, want %d", len(got), len(want))
	}
	for i, ev := range got {
		if ev.Type != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, ev.Type, want[i])
		}
	}
}
