package notification

import (
	"bookwise/core/database"
	"bookwise/core/tasks"
	"bookwise/modules/notification/repository"
	"bookwise/modules/notification/service"
)

func Init(db database.IDatabase, tasksClient *tasks.Client) service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	return service.NewNotificationService(repo, tasksClient)
}
