package memory

import (
	"time"

	"github.com/cloudscope/console-api/internal/core/domain"
)

// DemoAccounts returns the demo dataset the console ships with. The in-memory
// repository is seeded with it when SEED_DEMO_DATA is on.
func DemoAccounts() []*domain.Account {
	return []*domain.Account{
		demoAccount("123456789012", "Production Environment", []string{"us-east-1", "us-west-2", "eu-west-1"}, "2024-01-15T10:30:00Z", "2024-10-20T14:22:00Z"),
		demoAccount("234567890123", "Development Environment", []string{"us-east-1", "us-west-2"}, "2024-02-10T09:15:00Z", "2024-10-18T11:45:00Z"),
		demoAccount("345678901234", "Staging Environment", []string{"us-east-1"}, "2024-03-05T16:20:00Z", "2024-10-15T08:30:00Z"),
		demoAccount("456789012345", "Testing Environment", []string{"us-west-2", "eu-west-1"}, "2024-04-12T13:45:00Z", "2024-10-12T17:10:00Z"),
		demoAccount("567890123456", "Analytics Platform", []string{"us-east-1", "us-west-2", "eu-west-1", "ap-south-1"}, "2024-05-20T11:30:00Z", "2024-10-10T15:20:00Z"),
		demoAccount("678901234567", "Security & Compliance", []string{"us-east-1", "eu-west-1"}, "2024-06-08T14:15:00Z", "2024-10-08T12:40:00Z"),
		demoAccount("789012345678", "Data Lake Storage", []string{"us-west-2", "eu-central-1"}, "2024-07-03T10:00:00Z", "2024-10-05T09:25:00Z"),
		demoAccount("890123456789", "Machine Learning Workloads", []string{"us-east-1", "us-west-2", "ap-southeast-1"}, "2024-08-18T15:30:00Z", "2024-10-03T13:15:00Z"),
		demoAccount("901234567890", "Backup & Disaster Recovery", []string{"us-east-1", "us-west-2", "eu-west-1", "ap-south-1", "sa-east-1"}, "2024-09-10T12:45:00Z", "2024-10-01T16:30:00Z"),
		demoAccount("012345678901", "Legacy Systems Migration", []string{"us-east-1"}, "2024-09-25T08:20:00Z", "2024-09-28T14:50:00Z"),
		demoAccount("112233445566", "Mobile App Backend", []string{"us-east-1", "eu-west-1", "ap-southeast-1"}, "2024-08-05T11:10:00Z", "2024-09-20T10:35:00Z"),
		demoAccount("223344556677", "IoT Data Processing", []string{"us-west-2", "eu-central-1", "ap-northeast-1"}, "2024-07-22T13:25:00Z", "2024-09-15T12:20:00Z"),
	}
}

func demoAccount(id, name string, regions []string, created, updated string) *domain.Account {
	createdAt, _ := time.Parse(time.RFC3339, created)
	updatedAt, _ := time.Parse(time.RFC3339, updated)
	return &domain.Account{
		AccountID:     id,
		AccountName:   name,
		ActiveRegions: regions,
		Status:        domain.AccountActive,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}
