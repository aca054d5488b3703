package ports

import "github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"

// Record is a decoded relational row.
type Record = domain.Record
