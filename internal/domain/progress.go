package domain

import "time"

// ModuleCompletion records that a learner finished a module.
type ModuleCompletion struct {
	UserID      int64     `json:"user_id"`
	ModuleID    int64     `json:"module_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// StudyPathProgress is a learner's completion state on one study path.
type StudyPathProgress struct {
	StudyPathID      int64     `json:"study_path_id"`
	Topic            string    `json:"topic"`
	CompletedModules int       `json:"completed_modules"`
	TotalModules     int       `json:"total_modules"`
	Percent          int       `json:"percent"`
	LastCompletedAt  time.Time `json:"last_completed_at"`
}

// UserProgress is a learner's completion state across study paths.
type UserProgress struct {
	UserID           int64               `json:"user_id"`
	StudyPaths       []StudyPathProgress `json:"study_paths"`
	CompletedModules int                 `json:"completed_modules"`
	TotalModules     int                 `json:"total_modules"`
}

// NewUserProgress fills in each path's percent and the overall totals.
func NewUserProgress(userID int64, paths []StudyPathProgress) *UserProgress {
	progress := &UserProgress{UserID: userID, StudyPaths: paths}
	if progress.StudyPaths == nil {
		progress.StudyPaths = []StudyPathProgress{}
	}
	for i := range progress.StudyPaths {
		p := &progress.StudyPaths[i]
		p.Percent = percent(p.CompletedModules, p.TotalModules)
		progress.CompletedModules += p.CompletedModules
		progress.TotalModules += p.TotalModules
	}
	return progress
}

// percent rounds down so a path never shows 100 before it is finished.
func percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return done * 100 / total
}
