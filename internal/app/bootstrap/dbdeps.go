// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/coursehub/internal/app/curriculum"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// DBDeps holds database/back-end dependencies for the app. Exactly one of
// the Mongo or SQL handles is set, matching AppConfig.StoreBackend.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	SQL           *gorm.DB

	// Curriculum is built on whichever backend is connected.
	Curriculum *curriculum.Service
}
