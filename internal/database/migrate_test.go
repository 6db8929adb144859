package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	stmts := SplitStatements("CREATE TABLE a (id INT);\n\n  CREATE TABLE b (id INT) ;\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"}, stmts)
	assert.Empty(t, SplitStatements("  ;\n;"))
}

func TestMigrationsEmbedded(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "001_catalog", migrations[0].Version)

	var tables []string
	for _, stmt := range migrations[0].Statements {
		if strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS ") {
			name := strings.Fields(strings.TrimPrefix(stmt, "CREATE TABLE IF NOT EXISTS "))[0]
			tables = append(tables, name)
		}
	}
	assert.Equal(t, []string{"categories", "collections", "products", "product_colors", "product_images", "reviews"}, tables)
}
