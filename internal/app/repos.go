package app

import (
	"gorm.io/gorm"

	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	"github.com/Goutham-Eda/Carlo/internal/pkg/logger"
)

func wireRepos(db *gorm.DB, log *logger.Logger) repos.Set {
	log.Info("Wiring repos...")
	return repos.NewSet(db, log)
}
