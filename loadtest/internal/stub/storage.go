package stub

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"
)

type Bucket struct {
	DueStart         time.Time
	DueEnd           time.Time
	Count            int
	Priority         string
	Category         string
	EstimatedMinutes int
}

type TaskStorage struct {
	mu              sync.RWMutex
	buckets         map[string][]*Bucket         // userID -> buckets
	profiles        map[string]ProfileResponse   // userID -> profile
	statusOverrides map[string]map[string]string // userID -> taskID -> status
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		buckets:         make(map[string][]*Bucket),
		profiles:        make(map[string]ProfileResponse),
		statusOverrides: make(map[string]map[string]string),
	}
}

func (s *TaskStorage) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, userID)
	delete(s.profiles, userID)
	delete(s.statusOverrides, userID)
}

func (s *TaskStorage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets = make(map[string][]*Bucket)
	s.profiles = make(map[string]ProfileResponse)
	s.statusOverrides = make(map[string]map[string]string)
}

func (s *TaskStorage) AddBucket(userID string, bucket *Bucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[userID] = append(s.buckets[userID], bucket)
}

func (s *TaskStorage) SetProfile(userID string, profile ProfileResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = profile
}

func (s *TaskStorage) GetProfile(userID string) (ProfileResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	return profile, ok
}

func (s *TaskStorage) UserIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(s.buckets))
	ids := make([]string, 0, len(s.buckets))
	for userID := range s.buckets {
		if !seen[userID] {
			seen[userID] = true
			ids = append(ids, userID)
		}
	}
	for userID := range s.profiles {
		if !seen[userID] {
			seen[userID] = true
			ids = append(ids, userID)
		}
	}
	sort.Strings(ids)

	return ids
}

func (s *TaskStorage) GetTasks(userID string) []TaskResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := s.buckets[userID]
	if len(buckets) == 0 {
		return []TaskResponse{}
	}

	var tasks []TaskResponse
	for _, bucket := range buckets {
		tasks = append(tasks, s.generateTasksForBucket(userID, bucket)...)
	}

	return tasks
}

// generateTasksForBucket spreads the bucket's tasks evenly across the
// due window. Task IDs are deterministic so repeated reads return the
// same set.
func (s *TaskStorage) generateTasksForBucket(userID string, bucket *Bucket) []TaskResponse {
	if bucket.Count == 0 {
		return nil
	}

	tasks := make([]TaskResponse, 0, bucket.Count)

	windowDuration := bucket.DueEnd.Sub(bucket.DueStart)
	if windowDuration <= 0 {
		windowDuration = time.Minute
	}

	interval := windowDuration / time.Duration(bucket.Count)
	if interval == 0 {
		interval = time.Second
	}

	for i := 0; i < bucket.Count; i++ {
		dueAt := bucket.DueStart.Add(time.Duration(i) * interval)
		id := generateTaskID(userID, bucket.DueStart, bucket.Priority, i)

		status := "not_started"
		if overrides, exists := s.statusOverrides[userID]; exists {
			if override, ok := overrides[id]; ok {
				status = override
			}
		}

		var estimated *int
		if bucket.EstimatedMinutes > 0 {
			minutes := bucket.EstimatedMinutes
			estimated = &minutes
		}

		due := dueAt
		tasks = append(tasks, TaskResponse{
			ID:               id,
			Title:            "task-" + id[:8],
			DueAt:            &due,
			Status:           status,
			Priority:         bucket.Priority,
			EstimatedMinutes: estimated,
			Category:         bucket.Category,
		})
	}

	return tasks
}

func (s *TaskStorage) SetStatus(userID, taskID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statusOverrides[userID] == nil {
		s.statusOverrides[userID] = make(map[string]string)
	}
	s.statusOverrides[userID][taskID] = status
}

func generateTaskID(userID string, dueStart time.Time, priority string, index int) string {
	input := fmt.Sprintf("%s-%s-%s-%d", userID, dueStart.Format("20060102150405"), priority, index)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}
