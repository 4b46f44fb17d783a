package testutil

import (
	"github.com/google/uuid"
	"github.com/munckapp/munck-backend/internal/domain"
)

// MockServiceRecordRepository is a mock implementation of domain.ServiceRecordRepository
type MockServiceRecordRepository struct {
	Records                   map[int32]*domain.ServiceRecord
	NextID                    int32
	CreateFn                  func(record *domain.ServiceRecord) (*domain.ServiceRecord, error)
	GetByIDFn                 func(id int32) (*domain.ServiceRecord, error)
	GetAllFn                  func(filters *domain.ServiceRecordFilters) ([]*domain.ServiceRecord, error)
	UpdateFn                  func(record *domain.ServiceRecord) (*domain.ServiceRecord, error)
	DeleteFn                  func(id int32) error
	ReplaceWithInstallmentsFn func(originalID int32, installments []*domain.ServiceRecord) ([]*domain.ServiceRecord, error)
}

// NewMockServiceRecordRepository creates a new MockServiceRecordRepository
func NewMockServiceRecordRepository() *MockServiceRecordRepository {
	return &MockServiceRecordRepository{
		Records: make(map[int32]*domain.ServiceRecord),
		NextID:  1,
	}
}

// Create creates a new service record
func (m *MockServiceRecordRepository) Create(record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	if m.CreateFn != nil {
		return m.CreateFn(record)
	}
	record.ID = m.NextID
	m.NextID++
	m.Records[record.ID] = record
	return record, nil
}

// GetByID retrieves a service record by ID
func (m *MockServiceRecordRepository) GetByID(id int32) (*domain.ServiceRecord, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	if record, ok := m.Records[id]; ok {
		return record, nil
	}
	return nil, domain.ErrServiceNotFound
}

// GetAll retrieves service records, applying plate/period filters like the real query
func (m *MockServiceRecordRepository) GetAll(filters *domain.ServiceRecordFilters) ([]*domain.ServiceRecord, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(filters)
	}
	records := make([]*domain.ServiceRecord, 0, len(m.Records))
	for id := int32(1); id < m.NextID; id++ {
		record, ok := m.Records[id]
		if !ok {
			continue
		}
		if filters != nil {
			if filters.Plate != nil && record.Plate != *filters.Plate {
				continue
			}
			if filters.Period != nil && !filters.Period.Contains(record.IssueDate) {
				continue
			}
			if filters.Status != nil && record.Status != *filters.Status {
				continue
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// Update updates a service record
func (m *MockServiceRecordRepository) Update(record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(record)
	}
	if _, ok := m.Records[record.ID]; !ok {
		return nil, domain.ErrServiceNotFound
	}
	m.Records[record.ID] = record
	return record, nil
}

// Delete removes a service record
func (m *MockServiceRecordRepository) Delete(id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(id)
	}
	if _, ok := m.Records[id]; !ok {
		return domain.ErrServiceNotFound
	}
	delete(m.Records, id)
	return nil
}

// ReplaceWithInstallments swaps the original record for its installments
func (m *MockServiceRecordRepository) ReplaceWithInstallments(originalID int32, installments []*domain.ServiceRecord) ([]*domain.ServiceRecord, error) {
	if m.ReplaceWithInstallmentsFn != nil {
		return m.ReplaceWithInstallmentsFn(originalID, installments)
	}
	if _, ok := m.Records[originalID]; !ok {
		return nil, domain.ErrServiceNotFound
	}
	delete(m.Records, originalID)
	created := make([]*domain.ServiceRecord, 0, len(installments))
	for _, inst := range installments {
		inst.ID = m.NextID
		m.NextID++
		m.Records[inst.ID] = inst
		created = append(created, inst)
	}
	return created, nil
}

// FindPlateByOSNumber returns the plate of the record with the given OS number
func (m *MockServiceRecordRepository) FindPlateByOSNumber(osNumber string) (string, error) {
	for _, record := range m.Records {
		if record.OSNumber == osNumber {
			return record.Plate, nil
		}
	}
	return "", domain.ErrServiceNotFound
}

// FindPlateByInvoiceNumber returns the plate of the record with the given invoice number
func (m *MockServiceRecordRepository) FindPlateByInvoiceNumber(invoiceNumber string) (string, error) {
	for _, record := range m.Records {
		if record.InvoiceNumber != nil && *record.InvoiceNumber == invoiceNumber {
			return record.Plate, nil
		}
	}
	return "", domain.ErrServiceNotFound
}

// AddRecord adds a service record to the mock repository (helper for tests)
func (m *MockServiceRecordRepository) AddRecord(record *domain.ServiceRecord) {
	if record.ID == 0 {
		record.ID = m.NextID
	}
	if record.ID >= m.NextID {
		m.NextID = record.ID + 1
	}
	m.Records[record.ID] = record
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[int32]*domain.Expense
	NextID   int32
	CreateFn func(expense *domain.Expense) (*domain.Expense, error)
	GetAllFn func(filters *domain.ExpenseFilters) ([]*domain.Expense, error)
	UpdateFn func(expense *domain.Expense) (*domain.Expense, error)
	DeleteFn func(id int32) error
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int32]*domain.Expense),
		NextID:   1,
	}
}

// Create creates a new expense
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	expense.ID = m.NextID
	m.NextID++
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(id int32) (*domain.Expense, error) {
	if expense, ok := m.Expenses[id]; ok {
		return expense, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// GetAll retrieves expenses with optional filters
func (m *MockExpenseRepository) GetAll(filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(filters)
	}
	expenses := make([]*domain.Expense, 0, len(m.Expenses))
	for id := int32(1); id < m.NextID; id++ {
		expense, ok := m.Expenses[id]
		if !ok {
			continue
		}
		if filters != nil {
			if filters.Plate != nil && expense.Plate != *filters.Plate {
				continue
			}
			if filters.Period != nil && !filters.Period.Contains(expense.IssueDate) {
				continue
			}
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

// Update updates an expense
func (m *MockExpenseRepository) Update(expense *domain.Expense) (*domain.Expense, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(expense)
	}
	if _, ok := m.Expenses[expense.ID]; !ok {
		return nil, domain.ErrExpenseNotFound
	}
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// Delete removes an expense
func (m *MockExpenseRepository) Delete(id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(id)
	}
	if _, ok := m.Expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// SetReceiptKey stores the receipt object key for an expense
func (m *MockExpenseRepository) SetReceiptKey(id int32, key *string) error {
	expense, ok := m.Expenses[id]
	if !ok {
		return domain.ErrExpenseNotFound
	}
	expense.ReceiptKey = key
	return nil
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	if expense.ID == 0 {
		expense.ID = m.NextID
	}
	if expense.ID >= m.NextID {
		m.NextID = expense.ID + 1
	}
	m.Expenses[expense.ID] = expense
}

// MockVehicleRepository is a mock implementation of domain.VehicleRepository
type MockVehicleRepository struct {
	Vehicles map[int32]*domain.Vehicle
	ByPlate  map[string]*domain.Vehicle
	NextID   int32
	CreateFn func(vehicle *domain.Vehicle) (*domain.Vehicle, error)
	GetAllFn func() ([]*domain.Vehicle, error)
	DeleteFn func(id int32) error
}

// NewMockVehicleRepository creates a new MockVehicleRepository
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		Vehicles: make(map[int32]*domain.Vehicle),
		ByPlate:  make(map[string]*domain.Vehicle),
		NextID:   1,
	}
}

// Create creates a new vehicle
func (m *MockVehicleRepository) Create(vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if m.CreateFn != nil {
		return m.CreateFn(vehicle)
	}
	if _, exists := m.ByPlate[vehicle.Plate]; exists {
		return nil, domain.ErrPlateTaken
	}
	vehicle.ID = m.NextID
	m.NextID++
	m.Vehicles[vehicle.ID] = vehicle
	m.ByPlate[vehicle.Plate] = vehicle
	return vehicle, nil
}

// GetByID retrieves a vehicle by ID
func (m *MockVehicleRepository) GetByID(id int32) (*domain.Vehicle, error) {
	if vehicle, ok := m.Vehicles[id]; ok {
		return vehicle, nil
	}
	return nil, domain.ErrVehicleNotFound
}

// GetByPlate retrieves a vehicle by its plate
func (m *MockVehicleRepository) GetByPlate(plate string) (*domain.Vehicle, error) {
	if vehicle, ok := m.ByPlate[plate]; ok {
		return vehicle, nil
	}
	return nil, domain.ErrVehicleNotFound
}

// GetAll retrieves all vehicles in insertion order
func (m *MockVehicleRepository) GetAll() ([]*domain.Vehicle, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	vehicles := make([]*domain.Vehicle, 0, len(m.Vehicles))
	for id := int32(1); id < m.NextID; id++ {
		if vehicle, ok := m.Vehicles[id]; ok {
			vehicles = append(vehicles, vehicle)
		}
	}
	return vehicles, nil
}

// Update updates a vehicle
func (m *MockVehicleRepository) Update(vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	existing, ok := m.Vehicles[vehicle.ID]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	if existing.Plate != vehicle.Plate {
		if _, taken := m.ByPlate[vehicle.Plate]; taken {
			return nil, domain.ErrPlateTaken
		}
		delete(m.ByPlate, existing.Plate)
	}
	m.Vehicles[vehicle.ID] = vehicle
	m.ByPlate[vehicle.Plate] = vehicle
	return vehicle, nil
}

// Delete removes a vehicle
func (m *MockVehicleRepository) Delete(id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(id)
	}
	vehicle, ok := m.Vehicles[id]
	if !ok {
		return domain.ErrVehicleNotFound
	}
	delete(m.Vehicles, id)
	delete(m.ByPlate, vehicle.Plate)
	return nil
}

// AddVehicle adds a vehicle to the mock repository (helper for tests)
func (m *MockVehicleRepository) AddVehicle(vehicle *domain.Vehicle) {
	if vehicle.ID == 0 {
		vehicle.ID = m.NextID
	}
	if vehicle.ID >= m.NextID {
		m.NextID = vehicle.ID + 1
	}
	m.Vehicles[vehicle.ID] = vehicle
	m.ByPlate[vehicle.Plate] = vehicle
}

// MockDriverRepository is a mock implementation of domain.DriverRepository
type MockDriverRepository struct {
	Drivers map[int32]*domain.Driver
	NextID  int32
}

// NewMockDriverRepository creates a new MockDriverRepository
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		Drivers: make(map[int32]*domain.Driver),
		NextID:  1,
	}
}

// Create creates a new driver
func (m *MockDriverRepository) Create(driver *domain.Driver) (*domain.Driver, error) {
	driver.ID = m.NextID
	m.NextID++
	m.Drivers[driver.ID] = driver
	return driver, nil
}

// GetByID retrieves a driver by ID
func (m *MockDriverRepository) GetByID(id int32) (*domain.Driver, error) {
	if driver, ok := m.Drivers[id]; ok {
		return driver, nil
	}
	return nil, domain.ErrDriverNotFound
}

// GetAll retrieves all drivers
func (m *MockDriverRepository) GetAll() ([]*domain.Driver, error) {
	drivers := make([]*domain.Driver, 0, len(m.Drivers))
	for id := int32(1); id < m.NextID; id++ {
		if driver, ok := m.Drivers[id]; ok {
			drivers = append(drivers, driver)
		}
	}
	return drivers, nil
}

// Update updates a driver
func (m *MockDriverRepository) Update(driver *domain.Driver) (*domain.Driver, error) {
	if _, ok := m.Drivers[driver.ID]; !ok {
		return nil, domain.ErrDriverNotFound
	}
	m.Drivers[driver.ID] = driver
	return driver, nil
}

// Delete removes a driver
func (m *MockDriverRepository) Delete(id int32) error {
	if _, ok := m.Drivers[id]; !ok {
		return domain.ErrDriverNotFound
	}
	delete(m.Drivers, id)
	return nil
}

// AddDriver adds a driver to the mock repository (helper for tests)
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	if driver.ID == 0 {
		driver.ID = m.NextID
	}
	if driver.ID >= m.NextID {
		m.NextID = driver.ID + 1
	}
	m.Drivers[driver.ID] = driver
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	CreateFn func(auth0ID, email string, name, pictureURL *string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
	}
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// UpdateName updates only the user's name by Auth0 ID
func (m *MockUserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	user, ok := m.Users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	return user, nil
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name, pictureURL)
	}
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
	}
	m.Users[auth0ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
}
