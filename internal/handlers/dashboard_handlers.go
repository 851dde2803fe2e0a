package handlers

import (
	"net/http"
	"time"

	"mentorhub_backend/internal/database"

	"github.com/gin-gonic/gin"
)

// GetDashboardSummary returns the headline numbers for the dashboard in a
// single response: program size, pending money, stock alerts and recent
// activity.
func GetDashboardSummary(c *gin.Context) {
	db := database.GetDB()

	var totalMentees int64
	if err := db.QueryRow("SELECT COUNT(*) FROM mentees").Scan(&totalMentees); err != nil {
		respondInternal(c, "Failed to count mentees", err)
		return
	}

	var totalStaff int64
	if err := db.QueryRow("SELECT COUNT(*) FROM staff_members").Scan(&totalStaff); err != nil {
		respondInternal(c, "Failed to count staff", err)
		return
	}

	var pendingInvoices int64
	var outstandingTotal string
	err := db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(total), 0) FROM invoices WHERE status = 'pending'").
		Scan(&pendingInvoices, &outstandingTotal)
	if err != nil {
		respondInternal(c, "Failed to summarize pending invoices", err)
		return
	}

	var pendingReceipts int64
	if err := db.QueryRow("SELECT COUNT(*) FROM receipts WHERE status = 'pending'").Scan(&pendingReceipts); err != nil {
		respondInternal(c, "Failed to count pending receipts", err)
		return
	}

	var lowStockItems int64
	err = db.QueryRow(
		"SELECT COUNT(*) FROM inventory_items WHERE is_active = TRUE AND quantity <= min_stock").
		Scan(&lowStockItems)
	if err != nil {
		respondInternal(c, "Failed to count low stock items", err)
		return
	}

	var sessionsThisWeek int64
	weekAgo := time.Now().AddDate(0, 0, -7)
	if err := db.QueryRow("SELECT COUNT(*) FROM sessions WHERE start_time >= $1", weekAgo).Scan(&sessionsThisWeek); err != nil {
		respondInternal(c, "Failed to count recent sessions", err)
		return
	}

	var recentAuditEntries int64
	dayAgo := time.Now().Add(-24 * time.Hour)
	if err := db.QueryRow("SELECT COUNT(*) FROM audit_log WHERE created_at >= $1", dayAgo).Scan(&recentAuditEntries); err != nil {
		respondInternal(c, "Failed to count recent audit entries", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_mentees":          totalMentees,
		"total_staff":            totalStaff,
		"pending_invoices":       pendingInvoices,
		"outstanding_total":      outstandingTotal,
		"pending_receipts":       pendingReceipts,
		"low_stock_items":        lowStockItems,
		"sessions_last_7_days":   sessionsThisWeek,
		"audit_entries_last_24h": recentAuditEntries,
	})
}
