package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

var (
	identPattern     = regexp.MustCompile(`[a-z_][a-z0-9_]*`)
	qualifiedPattern = regexp.MustCompile(`([a-z_][a-z0-9_]*)\.([a-z_][a-z0-9_]*)`)
	literalPattern   = regexp.MustCompile(`'[^']*'`)
	fromPattern      = regexp.MustCompile(`(?:FROM|JOIN)\s+([a-z_]+)(?:\s+([a-z]))?`)
)

// Keywords appearing lowercase inside branch queries, if any, plus function
// names. Uppercase keywords never match identPattern.
var sqlKeywords = map[string]bool{
	"coalesce": true,
}

// schemaColumns parses db_schema.sql into table -> column set.
func schemaColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()
	content, err := os.ReadFile("../../db_schema.sql")
	if err != nil {
		t.Fatalf("could not read schema file: %v", err)
	}

	tables := map[string]map[string]bool{}
	var current map[string]bool
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "CREATE TABLE IF NOT EXISTS ") {
			name := strings.TrimPrefix(trimmed, "CREATE TABLE IF NOT EXISTS ")
			name = strings.TrimSpace(strings.TrimSuffix(name, "("))
			current = map[string]bool{}
			tables[name] = current
			continue
		}
		if current == nil {
			continue
		}
		if strings.HasPrefix(trimmed, ")") {
			current = nil
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) > 0 && identPattern.FindString(fields[0]) == fields[0] {
			current[fields[0]] = true
		}
	}
	return tables
}

// Every column a search branch touches must exist in the schema, so a renamed
// column fails here instead of as a runtime 500 on /search.
func TestSearchBranchColumnsExistInSchema(t *testing.T) {
	tables := schemaColumns(t)
	assert.NotEmpty(t, tables)

	for _, branch := range searchBranches {
		t.Run(branch.key, func(t *testing.T) {
			query := literalPattern.ReplaceAllString(branch.query, " ")

			aliases := map[string]string{}
			branchColumns := map[string]bool{}
			for _, m := range fromPattern.FindAllStringSubmatch(query, -1) {
				table, alias := m[1], m[2]
				cols, ok := tables[table]
				if !ok {
					t.Fatalf("branch reads unknown table %q", table)
				}
				if alias != "" {
					aliases[alias] = table
				}
				for col := range cols {
					branchColumns[col] = true
				}
			}
			assert.NotEmpty(t, branchColumns, "branch query has no FROM clause")

			for _, m := range qualifiedPattern.FindAllStringSubmatch(query, -1) {
				alias, col := m[1], m[2]
				table, ok := aliases[alias]
				if !ok {
					t.Fatalf("unknown table alias %q", alias)
				}
				assert.Truef(t, tables[table][col], "column %s.%s is not in the schema", table, col)
			}
			query = qualifiedPattern.ReplaceAllString(query, " ")

			for _, token := range identPattern.FindAllString(query, -1) {
				if sqlKeywords[token] || tables[token] != nil || aliases[token] != "" {
					continue
				}
				assert.Truef(t, branchColumns[token], "identifier %q is not a column of the branch's tables", token)
			}
		})
	}
}

func TestGlobalSearchRejectsShortQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, q := range []string{"", "a", " a ", "  "} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/api/v1/search?q="+strings.ReplaceAll(q, " ", "%20"), nil)

		GlobalSearch(c)

		assert.Equalf(t, http.StatusBadRequest, w.Code, "query %q must be rejected before hitting the database", q)
	}
}

func TestRespondInternalHidesUnderlyingError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondInternal(c, "Failed to search mentees", errors.New(`pq: password authentication failed for user "mentorhub"`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to search mentees")
	assert.NotContains(t, w.Body.String(), "pq:")
	assert.NotContains(t, w.Body.String(), "password")
}
