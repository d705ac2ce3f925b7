package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kindredpm/repair-booking/internal/model"
	"github.com/kindredpm/repair-booking/internal/repository"
)

// memStore is an in-memory Store with the same atomicity guarantees as
// the SQL-backed store: claims and cancels are conditional transitions
// under one lock, and a schedule either fully applies or leaves
// nothing behind.
type memStore struct {
	mu      sync.Mutex
	slots   map[string]bool // "date|slot" -> available; presence = seeded
	repairs map[string]*model.Repair
	seq     map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		slots:   make(map[string]bool),
		repairs: make(map[string]*model.Repair),
		seq:     make(map[string]int),
	}
}

func slotKey(date, slot string) string { return date + "|" + slot }

func (m *memStore) EnsureWindow(_ context.Context, today time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for offset := 1; offset <= 7; offset++ {
		date := today.AddDate(0, 0, offset).Format("2006-01-02")
		for _, slot := range model.TimeSlots {
			k := slotKey(date, slot)
			if _, ok := m.slots[k]; !ok {
				m.slots[k] = true
			}
		}
	}
	return nil
}

func (m *memStore) AvailableSlots(_ context.Context, date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	open := make([]string, 0, len(model.TimeSlots))
	for _, slot := range model.TimeSlots {
		if m.slots[slotKey(date, slot)] {
			open = append(open, slot)
		}
	}
	return open, nil
}

func (m *memStore) ScheduleRepair(_ context.Context, rep *model.Repair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := slotKey(rep.Date, rep.TimeSlot)
	if !m.slots[k] {
		return repository.ErrSlotUnavailable
	}
	m.slots[k] = false
	m.seq[rep.Date]++
	rep.TicketID = model.FormatTicketID(rep.Date, m.seq[rep.Date])
	rep.Status = model.StatusScheduled
	stored := *rep
	m.repairs[rep.TicketID] = &stored
	return nil
}

func (m *memStore) RepairByTicket(_ context.Context, ticketID string) (*model.Repair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, ok := m.repairs[ticketID]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	out := *rep
	return &out, nil
}

func (m *memStore) CancelRepair(_ context.Context, ticketID string) (*model.Repair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, ok := m.repairs[ticketID]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	if rep.Status == model.StatusCancelled {
		return nil, repository.ErrAlreadyCancelled
	}
	rep.Status = model.StatusCancelled
	m.slots[slotKey(rep.Date, rep.TimeSlot)] = true
	out := *rep
	return &out, nil
}

// recordingGateway captures Notify calls and reports skipped/simulated
// like the console gateway.
type recordingGateway struct {
	mu         sync.Mutex
	recipients []string
	kinds      []string
}

func (g *recordingGateway) Notify(recipient string, _ *model.Repair, kind string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recipients = append(g.recipients, recipient)
	g.kinds = append(g.kinds, kind)
	if recipient == "" {
		return "skipped"
	}
	return "simulated"
}

// fixedToday is the reference "now" for these tests; the booking window
// covers 2025-06-01 through 2025-06-07.
var fixedToday = time.Date(2025, 5, 31, 10, 0, 0, 0, time.UTC)

func newTestService(store Store, gw *recordingGateway) *BookingService {
	svc := NewBookingService(store, gw, false)
	svc.now = func() time.Time { return fixedToday }
	return svc
}

func testRequest() ScheduleRequest {
	return ScheduleRequest{
		Name:             "홍길동",
		Address:          "서울시 강남구 테헤란로 1",
		Date:             "2025-06-03",
		TimeSlot:         "오전 10시",
		IssueType:        "sink_leak",
		IssueDescription: "싱크대 아래 누수",
		Email:            "hong@example.com",
	}
}

func TestScheduleExcludesSlotFromAvailability(t *testing.T) {
	svc := newTestService(newMemStore(), &recordingGateway{})
	ctx := context.Background()

	res, err := svc.Schedule(ctx, testRequest())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if res.Repair.Status != model.StatusScheduled {
		t.Errorf("status = %s, want %s", res.Repair.Status, model.StatusScheduled)
	}
	if res.Repair.TicketID != "KPM-20250603-001" {
		t.Errorf("ticket id = %s, want KPM-20250603-001", res.Repair.TicketID)
	}
	if res.Message == "" {
		t.Error("confirmation message is empty")
	}

	av, err := svc.CheckAvailability(ctx, "2025-06-03")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	for _, slot := range av.Slots {
		if slot == "오전 10시" {
			t.Error("booked slot still listed as available")
		}
	}
	if len(av.Slots) != len(model.TimeSlots)-1 {
		t.Errorf("got %d open slots, want %d", len(av.Slots), len(model.TimeSlots)-1)
	}
}

func TestScheduleConflictLeavesStoreUnchanged(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, &recordingGateway{})
	ctx := context.Background()

	first, err := svc.Schedule(ctx, testRequest())
	if err != nil {
		t.Fatalf("first Schedule: %v", err)
	}

	req := testRequest()
	req.Name = "김철수"
	if _, err := svc.Schedule(ctx, req); !errors.Is(err, repository.ErrSlotUnavailable) {
		t.Fatalf("second Schedule error = %v, want ErrSlotUnavailable", err)
	}

	// No ticket was issued for the losing call.
	if _, err := svc.CheckStatus(ctx, "KPM-20250603-002"); !errors.Is(err, repository.ErrTicketNotFound) {
		t.Errorf("loser minted a ticket: lookup error = %v", err)
	}
	got, err := svc.CheckStatus(ctx, first.Repair.TicketID)
	if err != nil {
		t.Fatalf("CheckStatus: %v", err)
	}
	if got.Name != "홍길동" || got.Status != model.StatusScheduled {
		t.Errorf("winning ticket mutated: %+v", got)
	}
}

func TestConcurrentSchedulesExactlyOneWins(t *testing.T) {
	svc := newTestService(newMemStore(), &recordingGateway{})
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Schedule(ctx, testRequest())
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, repository.ErrSlotUnavailable):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != callers-1 {
		t.Errorf("wins = %d, conflicts = %d, want 1 and %d", wins, conflicts, callers-1)
	}
}

func TestCancelRoundTripRestoresAvailability(t *testing.T) {
	svc := newTestService(newMemStore(), &recordingGateway{})
	ctx := context.Background()

	res, err := svc.Schedule(ctx, testRequest())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	cancelled, err := svc.Cancel(ctx, res.Repair.TicketID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Repair.Status != model.StatusCancelled {
		t.Errorf("status = %s, want %s", cancelled.Repair.Status, model.StatusCancelled)
	}

	av, err := svc.CheckAvailability(ctx, "2025-06-03")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	found := false
	for _, slot := range av.Slots {
		if slot == "오전 10시" {
			found = true
		}
	}
	if !found {
		t.Error("released slot missing from availability")
	}
}

func TestDoubleCancel(t *testing.T) {
	svc := newTestService(newMemStore(), &recordingGateway{})
	ctx := context.Background()

	res, err := svc.Schedule(ctx, testRequest())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := svc.Cancel(ctx, res.Repair.TicketID); err != nil {
		t.Fatalf("first Cancel: %v", err)
	}

	// Someone else re-books the released slot.
	rebooked, err := svc.Schedule(ctx, testRequest())
	if err != nil {
		t.Fatalf("re-book: %v", err)
	}

	// Second cancel of the original ticket is rejected and must not
	// flip status back or release the re-booked slot.
	if _, err := svc.Cancel(ctx, res.Repair.TicketID); !errors.Is(err, repository.ErrAlreadyCancelled) {
		t.Fatalf("second Cancel error = %v, want ErrAlreadyCancelled", err)
	}
	got, err := svc.CheckStatus(ctx, res.Repair.TicketID)
	if err != nil {
		t.Fatalf("CheckStatus: %v", err)
	}
	if got.Status != model.StatusCancelled {
		t.Errorf("status flipped back to %s", got.Status)
	}
	av, err := svc.CheckAvailability(ctx, "2025-06-03")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	for _, slot := range av.Slots {
		if slot == rebooked.Repair.TimeSlot {
			t.Error("failed cancel released a slot held by another ticket")
		}
	}
}

func TestTicketIDsSequencePerDate(t *testing.T) {
	svc := newTestService(newMemStore(), &recordingGateway{})
	ctx := context.Background()

	req := testRequest()
	req.Date = "2025-06-01"
	first, err := svc.Schedule(ctx, req)
	if err != nil {
		t.Fatalf("first Schedule: %v", err)
	}
	req.TimeSlot = "오전 11시"
	second, err := svc.Schedule(ctx, req)
	if err != nil {
		t.Fatalf("second Schedule: %v", err)
	}
	if first.Repair.TicketID != "KPM-20250601-001" {
		t.Errorf("first ticket = %s, want KPM-20250601-001", first.Repair.TicketID)
	}
	if second.Repair.TicketID != "KPM-20250601-002" {
		t.Errorf("second ticket = %s, want KPM-20250601-002", second.Repair.TicketID)
	}

	// A different date starts its own sequence.
	req.Date = "2025-06-02"
	other, err := svc.Schedule(ctx, req)
	if err != nil {
		t.Fatalf("other-date Schedule: %v", err)
	}
	if other.Repair.TicketID != "KPM-20250602-001" {
		t.Errorf("other-date ticket = %s, want KPM-20250602-001", other.Repair.TicketID)
	}
}

func TestCheckAvailabilityWindow(t *testing.T) {
	svc := newTestService(newMemStore(), &recordingGateway{})
	ctx := context.Background()

	// Every date in the window lists the full catalogue; seeding twice
	// must not change anything.
	for pass := 0; pass < 2; pass++ {
		for offset := 1; offset <= 7; offset++ {
			date := fixedToday.AddDate(0, 0, offset).Format("2006-01-02")
			av, err := svc.CheckAvailability(ctx, date)
			if err != nil {
				t.Fatalf("CheckAvailability(%s): %v", date, err)
			}
			if len(av.Slots) != len(model.TimeSlots) {
				t.Errorf("pass %d: %s has %d slots, want %d", pass, date, len(av.Slots), len(model.TimeSlots))
			}
		}
	}

	// A date outside the window has no slots, not an error.
	av, err := svc.CheckAvailability(ctx, "2030-01-01")
	if err != nil {
		t.Fatalf("CheckAvailability outside window: %v", err)
	}
	if len(av.Slots) != 0 {
		t.Errorf("outside-window date lists %d slots", len(av.Slots))
	}
}

func TestSeedingKeepsClaimedSlots(t *testing.T) {
	svc := newTestService(newMemStore(), &recordingGateway{})
	ctx := context.Background()

	if _, err := svc.Schedule(ctx, testRequest()); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	// Re-reading availability re-runs the window seeding.
	av, err := svc.CheckAvailability(ctx, "2025-06-03")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	for _, slot := range av.Slots {
		if slot == "오전 10시" {
			t.Error("re-seeding resurrected a claimed slot")
		}
	}
}

func TestNotificationOutcomes(t *testing.T) {
	gw := &recordingGateway{}
	svc := newTestService(newMemStore(), gw)
	ctx := context.Background()

	res, err := svc.Schedule(ctx, testRequest())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if res.EmailStatus != "simulated" {
		t.Errorf("email status = %s, want simulated", res.EmailStatus)
	}

	req := testRequest()
	req.TimeSlot = "오후 1시"
	req.Email = ""
	noMail, err := svc.Schedule(ctx, req)
	if err != nil {
		t.Fatalf("Schedule without email: %v", err)
	}
	if noMail.EmailStatus != "skipped" {
		t.Errorf("email status = %s, want skipped", noMail.EmailStatus)
	}

	cancelRes, err := svc.Cancel(ctx, res.Repair.TicketID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelRes.EmailStatus != "simulated" {
		t.Errorf("cancel email status = %s, want simulated", cancelRes.EmailStatus)
	}

	gw.mu.Lock()
	defer gw.mu.Unlock()
	if len(gw.kinds) != 3 || gw.kinds[0] != "scheduled" || gw.kinds[2] != "cancelled" {
		t.Errorf("gateway saw kinds %v", gw.kinds)
	}
}

func TestCheckStatusNotFound(t *testing.T) {
	svc := newTestService(newMemStore(), &recordingGateway{})
	if _, err := svc.CheckStatus(context.Background(), "KPM-20250601-999"); !errors.Is(err, repository.ErrTicketNotFound) {
		t.Errorf("error = %v, want ErrTicketNotFound", err)
	}
}
