package repos

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/types"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Ticket{}, &types.ChatMessage{}, &types.TicketSummary{}, &types.Order{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func seedTicket(t *testing.T, repo TicketRepo, ticketID, userID string, status types.TicketStatus) *types.Ticket {
	t.Helper()
	ticket := &types.Ticket{
		TicketID: ticketID,
		UserID:   userID,
		Subject:  "subject for " + ticketID,
		Status:   status,
		Priority: types.TicketPriorityMedium,
	}
	if err := repo.Create(context.Background(), nil, ticket); err != nil {
		t.Fatalf("seed ticket %s: %v", ticketID, err)
	}
	return ticket
}

func TestTicketRepoLookupAndOwnership(t *testing.T) {
	db := testDB(t)
	repo := NewTicketRepo(db, testLogger(t))
	ctx := context.Background()

	seedTicket(t, repo, "TKT-1-A", "user-1", types.TicketStatusOpen)

	got, err := repo.GetByTicketID(ctx, nil, "TKT-1-A")
	if err != nil {
		t.Fatalf("GetByTicketID: %v", err)
	}
	if got.UserID != "user-1" {
		t.Fatalf("userId: want=%q got=%q", "user-1", got.UserID)
	}

	if _, err := repo.GetByTicketID(ctx, nil, "TKT-1-MISSING"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing ticket: want ErrNotFound, got %v", err)
	}

	if _, err := repo.GetByTicketIDAndUser(ctx, nil, "TKT-1-A", "user-1"); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := repo.GetByTicketIDAndUser(ctx, nil, "TKT-1-A", "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign owner lookup: want ErrNotFound, got %v", err)
	}
}

func TestTicketRepoUpdateByTicketID(t *testing.T) {
	db := testDB(t)
	repo := NewTicketRepo(db, testLogger(t))
	ctx := context.Background()

	seedTicket(t, repo, "TKT-2-A", "user-1", types.TicketStatusOpen)

	now := time.Now()
	err := repo.UpdateByTicketID(ctx, nil, "TKT-2-A", map[string]interface{}{
		"status":              types.TicketStatusInProgress,
		"assigned_agent_id":   "agent-7",
		"assigned_agent_name": "Sam",
		"assigned_at":         now,
	})
	if err != nil {
		t.Fatalf("UpdateByTicketID: %v", err)
	}

	got, _ := repo.GetByTicketID(ctx, nil, "TKT-2-A")
	if got.Status != types.TicketStatusInProgress || got.AssignedAgentID != "agent-7" {
		t.Fatalf("update not applied: status=%q agent=%q", got.Status, got.AssignedAgentID)
	}
	if got.AssignedAt == nil {
		t.Fatalf("assignedAt should be set")
	}

	if err := repo.UpdateByTicketID(ctx, nil, "TKT-2-MISSING", map[string]interface{}{
		"status": types.TicketStatusOpen,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update of missing ticket: want ErrNotFound, got %v", err)
	}
}

func TestTicketRepoListFilters(t *testing.T) {
	db := testDB(t)
	repo := NewTicketRepo(db, testLogger(t))
	ctx := context.Background()

	seedTicket(t, repo, "TKT-3-A", "user-1", types.TicketStatusOpen)
	seedTicket(t, repo, "TKT-3-B", "user-1", types.TicketStatusInProgress)
	seedTicket(t, repo, "TKT-3-C", "user-2", types.TicketStatusInProgress)
	_ = repo.UpdateByTicketID(ctx, nil, "TKT-3-C", map[string]interface{}{"assigned_agent_id": "agent-7"})

	byStatus, err := repo.List(ctx, nil, TicketFilter{Status: string(types.TicketStatusInProgress)}, 0)
	if err != nil {
		t.Fatalf("List by status: %v", err)
	}
	if len(byStatus) != 2 {
		t.Fatalf("in_progress tickets: want=2 got=%d", len(byStatus))
	}

	byAgent, err := repo.List(ctx, nil, TicketFilter{AssignedAgentID: "agent-7"}, 0)
	if err != nil {
		t.Fatalf("List by agent: %v", err)
	}
	if len(byAgent) != 1 || byAgent[0].TicketID != "TKT-3-C" {
		t.Fatalf("agent filter: got %+v", byAgent)
	}

	limited, err := repo.List(ctx, nil, TicketFilter{}, 2)
	if err != nil {
		t.Fatalf("List with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limit: want=2 got=%d", len(limited))
	}

	mine, err := repo.ListByUser(ctx, nil, "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("user tickets: want=2 got=%d", len(mine))
	}
}

func TestChatMessageRepoOrdering(t *testing.T) {
	db := testDB(t)
	repo := NewChatMessageRepo(db, testLogger(t))
	ctx := context.Background()

	base := time.Now().Truncate(time.Second)
	// Two messages share a timestamp; insertion order must win on the tie.
	stamps := []time.Time{base, base.Add(time.Second), base.Add(time.Second), base.Add(2 * time.Second)}
	for i, ts := range stamps {
		msg := &types.ChatMessage{
			MessageID:   fmt.Sprintf("msg-%d", i),
			TicketID:    "TKT-4-A",
			SenderType:  types.SenderUser,
			SenderID:    "user-1",
			Content:     fmt.Sprintf("message %d", i),
			MessageType: types.MessageTypeText,
			Timestamp:   ts,
		}
		if err := repo.Create(ctx, nil, msg); err != nil {
			t.Fatalf("create message %d: %v", i, err)
		}
	}

	all, err := repo.ListByTicket(ctx, nil, "TKT-4-A", 0)
	if err != nil {
		t.Fatalf("ListByTicket: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("messages: want=4 got=%d", len(all))
	}
	for i, m := range all {
		if m.MessageID != fmt.Sprintf("msg-%d", i) {
			t.Fatalf("replay order broken at %d: got %q", i, m.MessageID)
		}
	}

	recent, err := repo.ListRecentByTicket(ctx, nil, "TKT-4-A", 2)
	if err != nil {
		t.Fatalf("ListRecentByTicket: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent window: want=2 got=%d", len(recent))
	}
	// Window reads as a transcript: oldest of the pair first.
	if recent[0].MessageID != "msg-2" || recent[1].MessageID != "msg-3" {
		t.Fatalf("recent window order: got %q, %q", recent[0].MessageID, recent[1].MessageID)
	}

	count, err := repo.CountByTicket(ctx, nil, "TKT-4-A")
	if err != nil || count != 4 {
		t.Fatalf("CountByTicket: want=4 got=%d err=%v", count, err)
	}

	if err := repo.DeleteByTicket(ctx, nil, "TKT-4-A"); err != nil {
		t.Fatalf("DeleteByTicket: %v", err)
	}
	count, _ = repo.CountByTicket(ctx, nil, "TKT-4-A")
	if count != 0 {
		t.Fatalf("count after delete: want=0 got=%d", count)
	}
}

func TestTicketSummaryRepoUpsert(t *testing.T) {
	db := testDB(t)
	repo := NewTicketSummaryRepo(db, testLogger(t))
	ctx := context.Background()

	first := &types.TicketSummary{
		TicketID:     "TKT-5-A",
		Summary:      "first pass",
		KeyPoints:    []string{"a"},
		CustomerTone: "neutral",
	}
	if err := repo.Upsert(ctx, nil, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := &types.TicketSummary{
		TicketID:       "TKT-5-A",
		Summary:        "second pass",
		KeyPoints:      []string{"a", "b"},
		CustomerTone:   "frustrated",
		SentimentScore: -0.4,
	}
	if err := repo.Upsert(ctx, nil, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.GetByTicketID(ctx, nil, "TKT-5-A")
	if err != nil {
		t.Fatalf("GetByTicketID: %v", err)
	}
	if got.Summary != "second pass" || got.CustomerTone != "frustrated" {
		t.Fatalf("upsert should replace: got summary=%q tone=%q", got.Summary, got.CustomerTone)
	}
	if len(got.KeyPoints) != 2 {
		t.Fatalf("keyPoints: want=2 got=%d", len(got.KeyPoints))
	}

	var count int64
	db.Model(&types.TicketSummary{}).Where("ticket_id = ?", "TKT-5-A").Count(&count)
	if count != 1 {
		t.Fatalf("summary rows: want=1 got=%d", count)
	}
}

func TestOrderRepoListRecentByUser(t *testing.T) {
	db := testDB(t)
	repo := NewOrderRepo(db, testLogger(t))
	ctx := context.Background()

	base := time.Now().Add(-72 * time.Hour)
	for i := 0; i < 3; i++ {
		order := &types.Order{
			OrderID:     fmt.Sprintf("ORD-%d", i),
			UserID:      "user-1",
			TotalAmount: float64(10 + i),
			Currency:    "EUR",
			Status:      "completed",
			OrderDate:   base.Add(time.Duration(i) * 24 * time.Hour),
		}
		if err := db.Create(order).Error; err != nil {
			t.Fatalf("seed order %d: %v", i, err)
		}
	}

	got, err := repo.ListRecentByUser(ctx, nil, "user-1", 2)
	if err != nil {
		t.Fatalf("ListRecentByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("orders: want=2 got=%d", len(got))
	}
	if got[0].OrderID != "ORD-2" || got[1].OrderID != "ORD-1" {
		t.Fatalf("orders should be newest first: got %q, %q", got[0].OrderID, got[1].OrderID)
	}
}
