package task

import "sync"

// Slot 时间轮槽位, 按加入顺序保存任务
type Slot struct {
	mu    sync.Mutex
	order []string
	tasks map[string]*Task
}

// NewSlot 创建槽位
func NewSlot() *Slot {
	return &Slot{tasks: make(map[string]*Task)}
}

// AddTask 加入任务, 同 ID 的旧任务被替换并排到末尾
func (s *Slot) AddTask(task *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; ok {
		s.removeLocked(task.ID)
	}
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
}

// RemoveTask 删除任务
func (s *Slot) RemoveTask(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return false
	}
	s.removeLocked(taskID)
	return true
}

func (s *Slot) removeLocked(taskID string) {
	delete(s.tasks, taskID)
	for i, id := range s.order {
		if id == taskID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// GetAndClear 按加入顺序取出全部任务并清空
func (s *Slot) GetAndClear() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) == 0 {
		return nil
	}
	tasks := make([]*Task, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.tasks[id])
	}
	s.order = nil
	s.tasks = make(map[string]*Task)
	return tasks
}

// Count 任务数
func (s *Slot) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.order)
}
