package content

import (
	firestorepersistence "welfare-cms/internal/content/adapter/persistence/firestore"
	"welfare-cms/internal/content/adapter/persistence/memory"
	mongopersistence "welfare-cms/internal/content/adapter/persistence/mongodb"
	"welfare-cms/internal/content/config"
	"welfare-cms/internal/content/domain/repository"
	"welfare-cms/internal/shared/database"
	"welfare-cms/internal/shared/logger"

	"cloud.google.com/go/firestore"
)

// Stores are the persistence ports of one backend.
type Stores struct {
	Backend     string
	Documents   repository.DocumentStore
	Submissions repository.SubmissionRepository
	Gallery     repository.GalleryRepository
}

// NewMemoryStores keeps everything in process memory.
func NewMemoryStores() Stores {
	return Stores{
		Backend:     config.BackendMemory,
		Documents:   memory.NewDocumentStore(),
		Submissions: memory.NewSubmissionRepository(),
		Gallery:     memory.NewGalleryRepository(),
	}
}

// NewMongoStores builds the Mongo adapters over an open connection. Gallery
// cascades run in a session transaction when the deployment supports one.
func NewMongoStores(conn *database.Mongo, cols config.CollectionConfig, log logger.Logger) Stores {
	db := conn.Database
	collection := func(name string) mongopersistence.CollectionInterface {
		return mongopersistence.NewMongoCollectionAdapter(db.Collection(name))
	}

	var tx mongopersistence.TransactionRunner
	if conn.TransactionsEnabled() {
		tx = mongopersistence.NewSessionTransactionRunner(conn.Client)
	} else {
		log.Warn("MongoDB transactions disabled: gallery cascades run sequentially")
		tx = mongopersistence.NewSequentialRunner(log)
	}

	return Stores{
		Backend:     config.BackendMongoDB,
		Documents:   mongopersistence.NewDocumentStore(collection(cols.Content), conn.Ping, log),
		Submissions: mongopersistence.NewSubmissionRepository(collection(cols.Submissions)),
		Gallery:     mongopersistence.NewGalleryRepository(collection(cols.Albums), collection(cols.Images), tx, log),
	}
}

// NewFirestoreStores builds the Firestore adapters over client.
func NewFirestoreStores(client *firestore.Client, cols config.CollectionConfig) Stores {
	return Stores{
		Backend:     config.BackendFirestore,
		Documents:   firestorepersistence.NewDocumentStore(client, cols.Content),
		Submissions: firestorepersistence.NewSubmissionRepository(client, cols.Submissions),
		Gallery:     firestorepersistence.NewGalleryRepository(client, cols.Albums, cols.Images),
	}
}
