package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"mentorhub_backend/internal/database"

	"github.com/gin-gonic/gin"
)

// SearchResult is a single hit from the federated search, tagged with the
// entity it came from.
type SearchResult struct {
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle,omitempty"`
}

const searchResultsPerEntity = 10

// searchBranch is one arm of the federated search. Every query must select
// exactly id, title, subtitle and accept $1 = pattern, $2 = limit.
type searchBranch struct {
	key        string // results group key
	entityType string
	query      string
}

var searchBranches = []searchBranch{
	{
		key:        "mentees",
		entityType: "mentee",
		query: `SELECT id, full_name, COALESCE(school, '')
		        FROM mentees
		        WHERE full_name ILIKE $1 OR guardian_name ILIKE $1 OR school ILIKE $1
		        ORDER BY full_name LIMIT $2`,
	},
	{
		key:        "staff",
		entityType: "staff_member",
		query: `SELECT s.id, COALESCE(u.full_name, u.username, 'Staff #' || s.id), COALESCE(s.position, '')
		        FROM staff_members s
		        LEFT JOIN users u ON u.id = s.user_id
		        WHERE u.full_name ILIKE $1 OR u.username ILIKE $1 OR s.position ILIKE $1
		        ORDER BY u.full_name LIMIT $2`,
	},
	{
		key:        "inventory",
		entityType: "inventory_item",
		query: `SELECT id, item_name, sku
		        FROM inventory_items
		        WHERE item_name ILIKE $1 OR sku ILIKE $1 OR category ILIKE $1
		        ORDER BY item_name LIMIT $2`,
	},
	{
		key:        "invoices",
		entityType: "invoice",
		query: `SELECT id, invoice_number, vendor || ' (' || status || ')'
		        FROM invoices
		        WHERE invoice_number ILIKE $1 OR vendor ILIKE $1
		        ORDER BY created_at DESC LIMIT $2`,
	},
	{
		key:        "receipts",
		entityType: "receipt",
		query: `SELECT id, receipt_number, vendor || ' (' || status || ')'
		        FROM receipts
		        WHERE receipt_number ILIKE $1 OR vendor ILIKE $1 OR category ILIKE $1
		        ORDER BY created_at DESC LIMIT $2`,
	},
	{
		key:        "documents",
		entityType: "document",
		query: `SELECT id, title, file_name
		        FROM documents
		        WHERE title ILIKE $1 OR file_name ILIKE $1
		        ORDER BY created_at DESC LIMIT $2`,
	},
}

// GlobalSearch fans a case-insensitive substring query out across mentees,
// staff, inventory, invoices, receipts and documents. Results are grouped
// per entity so a noisy match in one table cannot drown out the others.
func GlobalSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if len(query) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query must be at least 2 characters long"})
		return
	}

	db := database.GetDB()
	pattern := "%" + query + "%"
	results := gin.H{}

	for _, branch := range searchBranches {
		hits, err := collectSearchResults(db, branch.entityType, branch.query, pattern)
		if err != nil {
			respondInternal(c, "Failed to search "+branch.key, err)
			return
		}
		results[branch.key] = hits
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "results": results})
}

// collectSearchResults runs one branch of the federated search.
func collectSearchResults(db *sql.DB, entityType, query, pattern string) ([]SearchResult, error) {
	rows, err := db.Query(query, pattern, searchResultsPerEntity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []SearchResult{}
	for rows.Next() {
		r := SearchResult{EntityType: entityType}
		if err := rows.Scan(&r.EntityID, &r.Title, &r.Subtitle); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
