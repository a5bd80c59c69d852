package api

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the user and task endpoints on r. Callers mount r
// under /api.
func RegisterRoutes(r chi.Router, users *UserHandler, tasks *TaskHandler) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", users.CreateUser)
		r.Get("/", users.ListUsers)

		r.Route("/{user_id}", func(r chi.Router) {
			r.Get("/", users.GetUser)
			r.Put("/", users.UpdateUser)
			r.Delete("/", users.DeleteUser)

			// Path used by earlier clients of the search endpoint.
			r.Get("/searchTasks", tasks.SearchTasks)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", tasks.CreateTask)
				r.Get("/", tasks.ListTasks)
				r.Get("/search", tasks.SearchTasks)

				r.Get("/{task_id}", tasks.GetTask)
				r.Put("/{task_id}", tasks.UpdateTask)
				r.Delete("/{task_id}", tasks.DeleteTask)
				r.Put("/{task_id}/status", tasks.UpdateTaskStatus)
			})
		})
	})
}
