package techniques

import (
	"fmt"

	"github.com/gocraft/dbr/v2"
	dbrdialect "github.com/gocraft/dbr/v2/dialect"

	"github.com/acronis/perfkit/dbopt-bench/db"
)

// TableDropper is the part of db.Database used to remove partitions
type TableDropper interface {
	DropTable(tableName string) error
}

// HorizontalPartitionName returns the name of the partition of table holding value
func HorizontalPartitionName(table string, value string) string {
	return fmt.Sprintf("%s_%s", table, value)
}

// VerticalPartitionName returns the name of the i-th column group of table
func VerticalPartitionName(table string, i int) string {
	return fmt.Sprintf("%s_part%d", table, i)
}

// materialize runs CREATE TABLE IF NOT EXISTS name AS <stmt>, values of stmt stay bound
func materialize(s db.DatabaseAccessor, name string, stmt *dbr.SelectStmt) error {
	var buf = dbr.NewBuffer()
	if err := stmt.Build(dbrdialect.SQLite3, buf); err != nil {
		return fmt.Errorf("cannot build partition %s: %w", name, err)
	}

	var query = fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s AS %s", name, buf.String())
	if _, err := s.Exec(query, buf.Value()...); err != nil {
		return fmt.Errorf("cannot create partition %s: %w", name, err)
	}

	return nil
}

// HorizontalPartition snapshots the rows of table where column = value into table_value,
// one table per value. Existing partitions are left as they are.
func HorizontalPartition(s db.DatabaseAccessor, table string, column string, values []string) error {
	if err := db.ValidateIdentifiers(table, column); err != nil {
		return err
	}

	for _, value := range values {
		var name = HorizontalPartitionName(table, value)
		if err := db.ValidateIdentifier(name); err != nil {
			return fmt.Errorf("partition value %q: %w", value, err)
		}

		if err := materialize(s, name, dbr.Select("*").From(table).Where(dbr.Eq(column, value))); err != nil {
			return err
		}
	}

	return nil
}

// VerticalPartition snapshots every column group of table into table_part<i>.
// Existing partitions are left as they are.
func VerticalPartition(s db.DatabaseAccessor, table string, columnGroups [][]string) error {
	if err := db.ValidateIdentifier(table); err != nil {
		return err
	}

	for i, group := range columnGroups {
		if len(group) == 0 {
			return fmt.Errorf("column group %d of %s is empty", i, table)
		}

		if err := db.ValidateIdentifiers(group...); err != nil {
			return err
		}

		var columns = make([]interface{}, 0, len(group))
		for _, c := range group {
			columns = append(columns, c)
		}

		if err := materialize(s, VerticalPartitionName(table, i), dbr.Select(columns...).From(table)); err != nil {
			return err
		}
	}

	return nil
}

// DropHorizontalPartitions drops the partitions created by HorizontalPartition
func DropHorizontalPartitions(d TableDropper, table string, values []string) error {
	for _, value := range values {
		if err := d.DropTable(HorizontalPartitionName(table, value)); err != nil {
			return fmt.Errorf("cannot drop partition of %s for %q: %w", table, value, err)
		}
	}

	return nil
}

// DropVerticalPartitions drops the first groups partitions created by VerticalPartition
func DropVerticalPartitions(d TableDropper, table string, groups int) error {
	for i := 0; i < groups; i++ {
		if err := d.DropTable(VerticalPartitionName(table, i)); err != nil {
			return fmt.Errorf("cannot drop partition %d of %s: %w", i, table, err)
		}
	}

	return nil
}
