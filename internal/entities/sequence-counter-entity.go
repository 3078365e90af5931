package entities

import "time"

// SequenceCounter - последнее выданное значение для ключа партиции.
// Строка создаётся лениво при первой выдаче и никогда не удаляется.
type SequenceCounter struct {
	PartitionKey string    `db:"partition_key"`
	LastValue    int64     `db:"last_value"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
