package datastore

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetReadingStore implements the StoreManager interface.
func (m *MockStoreManager) GetReadingStore() contract.ReadingStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ReadingStore)
	return store
}

// GetFoodStore implements the StoreManager interface.
func (m *MockStoreManager) GetFoodStore() contract.FoodStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.FoodStore)
	return store
}

// GetCrashStore implements the StoreManager interface.
func (m *MockStoreManager) GetCrashStore() contract.CrashStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CrashStore)
	return store
}

// GetAssessmentStore implements the StoreManager interface.
func (m *MockStoreManager) GetAssessmentStore() contract.AssessmentStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AssessmentStore)
	return store
}

// GetImportStore implements the StoreManager interface.
func (m *MockStoreManager) GetImportStore() contract.ImportStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ImportStore)
	return store
}

// GetCacheStore implements the StoreManager interface.
func (m *MockStoreManager) GetCacheStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetStatus implements the StoreManager interface.
func (m *MockStoreManager) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// MockReadingStore is a mock implementation of ReadingStore for testing.
type MockReadingStore struct {
	mock.Mock
}

var _ contract.ReadingStore = &MockReadingStore{} // Compile-time check

// PutReadings implements the ReadingStore interface.
func (m *MockReadingStore) PutReadings(runID string, readings []schema.GlucoseReading) error {
	args := m.Called(runID, readings)
	return args.Error(0)
}

// GetReadings implements the ReadingStore interface.
func (m *MockReadingStore) GetReadings(start, end time.Time) ([]schema.GlucoseReading, error) {
	args := m.Called(start, end)
	readings, _ := args.Get(0).([]schema.GlucoseReading)
	return readings, args.Error(1)
}

// LatestReadingTime implements the ReadingStore interface.
func (m *MockReadingStore) LatestReadingTime() (time.Time, error) {
	args := m.Called()
	return args.Get(0).(time.Time), args.Error(1)
}

// Close implements the ReadingStore interface.
func (m *MockReadingStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockFoodStore is a mock implementation of FoodStore for testing.
type MockFoodStore struct {
	mock.Mock
}

var _ contract.FoodStore = &MockFoodStore{} // Compile-time check

// PutFoods implements the FoodStore interface.
func (m *MockFoodStore) PutFoods(runID string, foods []schema.FoodEntry) error {
	args := m.Called(runID, foods)
	return args.Error(0)
}

// GetFoods implements the FoodStore interface.
func (m *MockFoodStore) GetFoods(start, end time.Time) ([]schema.FoodEntry, error) {
	args := m.Called(start, end)
	foods, _ := args.Get(0).([]schema.FoodEntry)
	return foods, args.Error(1)
}

// Close implements the FoodStore interface.
func (m *MockFoodStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockCrashStore is a mock implementation of CrashStore for testing.
type MockCrashStore struct {
	mock.Mock
}

var _ contract.CrashStore = &MockCrashStore{} // Compile-time check

// PutCrashes implements the CrashStore interface.
func (m *MockCrashStore) PutCrashes(runID string, crashes []schema.CrashEvent) error {
	args := m.Called(runID, crashes)
	return args.Error(0)
}

// GetCrashes implements the CrashStore interface.
func (m *MockCrashStore) GetCrashes(start, end time.Time) ([]schema.CrashEvent, error) {
	args := m.Called(start, end)
	crashes, _ := args.Get(0).([]schema.CrashEvent)
	return crashes, args.Error(1)
}

// Close implements the CrashStore interface.
func (m *MockCrashStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAssessmentStore is a mock implementation of AssessmentStore for testing.
type MockAssessmentStore struct {
	mock.Mock
}

var _ contract.AssessmentStore = &MockAssessmentStore{} // Compile-time check

// PutAssessment implements the AssessmentStore interface.
func (m *MockAssessmentStore) PutAssessment(a schema.Assessment) error {
	args := m.Called(a)
	return args.Error(0)
}

// GetAssessment implements the AssessmentStore interface.
func (m *MockAssessmentStore) GetAssessment(mealKey string) (*schema.Assessment, error) {
	args := m.Called(mealKey)
	assessment, _ := args.Get(0).(*schema.Assessment)
	return assessment, args.Error(1)
}

// Close implements the AssessmentStore interface.
func (m *MockAssessmentStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockImportStore is a mock implementation of ImportStore for testing.
type MockImportStore struct {
	mock.Mock
}

var _ contract.ImportStore = &MockImportStore{} // Compile-time check

// IsImported implements the ImportStore interface.
func (m *MockImportStore) IsImported(fileName string, mtimeMs int64) (bool, error) {
	args := m.Called(fileName, mtimeMs)
	return args.Bool(0), args.Error(1)
}

// RecordImport implements the ImportStore interface.
func (m *MockImportStore) RecordImport(rec schema.ImportedFile) error {
	args := m.Called(rec)
	return args.Error(0)
}

// ListImports implements the ImportStore interface.
func (m *MockImportStore) ListImports(limit int) ([]schema.ImportedFile, error) {
	args := m.Called(limit)
	records, _ := args.Get(0).([]schema.ImportedFile)
	return records, args.Error(1)
}

// Close implements the ImportStore interface.
func (m *MockImportStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	return args.Get(0).([]byte), args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
