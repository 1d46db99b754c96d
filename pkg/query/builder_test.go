package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectQualifiesFieldsAndPrependsID(t *testing.T) {
	result := From("deals").
		Select([]string{"name", "value"}).
		Build()

	assert.Equal(t, "SELECT `deals`.`id`, `deals`.`name`, `deals`.`value` FROM `deals`", result.SQL)
	assert.Empty(t, result.Params)
}

func TestSelectKeepsExplicitID(t *testing.T) {
	result := From("deals").
		Select([]string{"id", "name"}).
		Build()

	assert.Equal(t, "SELECT `deals`.`id`, `deals`.`name` FROM `deals`", result.SQL)
}

func TestSelectStar(t *testing.T) {
	result := From("contacts").Select([]string{"*"}).Build()
	assert.Equal(t, "SELECT * FROM `contacts`", result.SQL)
}

func TestTenantScopedSelect(t *testing.T) {
	result := From("deals").
		Select([]string{"name"}).
		ForTenant("tenant-1").
		ExcludeDeleted().
		Limit(100).
		Build()

	assert.Equal(t,
		"SELECT `deals`.`id`, `deals`.`name` FROM `deals` WHERE `deals`.`tenant_id` = ? AND `deals`.`is_deleted` = 0 LIMIT 100",
		result.SQL)
	assert.Equal(t, []interface{}{"tenant-1"}, result.Params)
}

func TestWhereAccumulatesParamsInOrder(t *testing.T) {
	result := From("deals").
		Where("`deals`.`status` = ?", "won").
		Where("`deals`.`value` > ?", 1000.0).
		Build()

	assert.Equal(t, "SELECT * FROM `deals` WHERE `deals`.`status` = ? AND `deals`.`value` > ?", result.SQL)
	assert.Equal(t, []interface{}{"won", 1000.0}, result.Params)
}

func TestWhereRawSkipsEmptyFragment(t *testing.T) {
	result := From("deals").
		WhereRaw("", nil).
		WhereRaw("(`deals`.`stage` = ? OR `deals`.`stage` = ?)", []interface{}{"won", "lost"}).
		Build()

	assert.Equal(t, "SELECT * FROM `deals` WHERE (`deals`.`stage` = ? OR `deals`.`stage` = ?)", result.SQL)
	assert.Equal(t, []interface{}{"won", "lost"}, result.Params)
}

func TestMultiKeyOrderBy(t *testing.T) {
	result := From("deals").
		OrderBy("stage", "asc").
		OrderBy("value", "DESC").
		OrderBy("name", "sideways").
		Build()

	assert.Equal(t,
		"SELECT * FROM `deals` ORDER BY `deals`.`stage` ASC, `deals`.`value` DESC, `deals`.`name` ASC",
		result.SQL)
}

func TestGroupBy(t *testing.T) {
	result := From("deals").
		AddSelectRaw("COUNT(*)", "total").
		GroupBy("stage").
		Build()

	assert.Equal(t, "SELECT COUNT(*) as `total` FROM `deals` GROUP BY `deals`.`stage`", result.SQL)
}

func TestQualifyLeavesPrefixedColumnsAlone(t *testing.T) {
	b := From("deals")
	assert.Equal(t, "`deals`.`value`", b.Qualify("value"))
	assert.Equal(t, "other.`value`", b.Qualify("other.`value`"))
	assert.Equal(t, "`value`", b.Qualify("`value`"))
}

func TestInsertBindsEveryColumn(t *testing.T) {
	result := Insert("user_notifications", map[string]interface{}{
		"id":    "n-1",
		"title": "Report failed",
	}).Build()

	// Column order follows map iteration, so assert shape rather than
	// exact text.
	assert.Contains(t, result.SQL, "INSERT INTO `user_notifications` (")
	assert.Contains(t, result.SQL, "`id`")
	assert.Contains(t, result.SQL, "`title`")
	assert.Contains(t, result.SQL, "VALUES (?, ?)")
	assert.Len(t, result.Params, 2)
	assert.ElementsMatch(t, []interface{}{"n-1", "Report failed"}, result.Params)
}

func TestUpdateWithWhere(t *testing.T) {
	result := Update("user_notifications").
		Set(map[string]interface{}{"is_read": 1}).
		Where("`user_notifications`.`id` = ?", "n-1").
		Build()

	assert.Equal(t,
		"UPDATE `user_notifications` SET `is_read` = ? WHERE `user_notifications`.`id` = ?",
		result.SQL)
	assert.Equal(t, []interface{}{1, "n-1"}, result.Params)
}

func TestSelectOnlyModifiersIgnoredForWrites(t *testing.T) {
	result := Update("user_notifications").
		Set(map[string]interface{}{"is_read": 1}).
		OrderBy("created_date", "desc").
		Limit(5).
		Build()

	assert.Equal(t, "UPDATE `user_notifications` SET `is_read` = ?", result.SQL)
}
