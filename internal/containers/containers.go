// containers.go
//
// Hierarchical chapter reporting service for the Ladies of the Fellowship dashboard
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lofreports.
// lofreports is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lofreports is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lofreports.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package containers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/localnerve/lofreports/internal/config"
	"github.com/localnerve/lofreports/internal/database"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// dbNetworkAlias is the database host name inside the container network
const dbNetworkAlias = "lofdb"

// Options describes the database container to start
type Options struct {
	Type         string // mariadb, mysql or postgres
	Image        string
	Port         string // port inside the container
	Database     string
	User         string
	Password     string
	RootPassword string
	// DataInMemory keeps the data directory on tmpfs
	DataInMemory bool
}

// OptionsFromEnv reads container options from the DB_* environment
func OptionsFromEnv() Options {
	opts := Options{
		Type:         getEnv("DB_TYPE", "mariadb"),
		Image:        os.Getenv("DB_IMAGE"),
		Port:         os.Getenv("DB_PORT"),
		Database:     getEnv("DB_DATABASE", "lofreports"),
		User:         getEnv("DB_USER", "lofreports"),
		Password:     getEnv("DB_PASSWORD", "lofreports"),
		RootPassword: getEnv("DB_ROOT_PASSWORD", "lofreports-root"),
		DataInMemory: os.Getenv("DB_DATA_IN_MEMORY") == "true",
	}
	if opts.Image == "" {
		opts.Image = defaultImage(opts.Type)
	}
	if opts.Port == "" {
		opts.Port = defaultPort(opts.Type)
	}
	return opts
}

// Database is a database server running in a container
type Database struct {
	Network   *testcontainers.DockerNetwork
	Container testcontainers.Container
	// Config connects to the container through its mapped port
	Config *config.Config
}

// Start starts a database container and waits until it accepts connections
func Start(ctx context.Context, opts Options, log *logrus.Entry) (*Database, error) {
	db := &Database{}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	db.Network = nw

	tcpPort, err := nat.NewPort("tcp", opts.Port)
	if err != nil {
		db.Terminate(ctx, log)
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	dataDir := "/var/lib/mysql"
	if opts.Type == "postgres" {
		dataDir = "/var/lib/postgresql/data"
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.Image,
			ExposedPorts: []string{string(tcpPort)},
			Env:          initEnv(opts),
			WaitingFor:   wait.ForListeningPort(tcpPort).WithStartupTimeout(90 * time.Second),
			Networks:     []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {dbNetworkAlias},
			},
			HostConfigModifier: func(hostConfig *container.HostConfig) {
				if opts.DataInMemory {
					hostConfig.Tmpfs = map[string]string{dataDir: "rw"}
				}
			},
		},
		Started: true,
	})
	if err != nil {
		db.Terminate(ctx, log)
		return nil, fmt.Errorf("failed to start database: %w", err)
	}
	db.Container = ctr

	host, err := ctr.Host(ctx)
	if err != nil {
		db.Terminate(ctx, log)
		return nil, fmt.Errorf("failed to get database host: %w", err)
	}
	mapped, err := ctr.MappedPort(ctx, tcpPort)
	if err != nil {
		db.Terminate(ctx, log)
		return nil, fmt.Errorf("failed to get database port: %w", err)
	}

	db.Config = &config.Config{
		DBType:            opts.Type,
		DBHost:            host,
		DBPort:            mapped.Port(),
		DBDatabase:        opts.Database,
		DBUser:            opts.User,
		DBPassword:        opts.Password,
		DBConnectionLimit: 5,
		StateKey:          "fgbmfiLofReportingData",
		LogLevel:          "warn",
	}

	if err := waitReady(ctx, db.Config, log); err != nil {
		db.Terminate(ctx, log)
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"image": opts.Image,
		"host":  host,
		"port":  mapped.Port(),
	}).Info("database container started")
	return db, nil
}

// Connect opens a gorm connection to the container
func (d *Database) Connect(log *logrus.Entry) (*gorm.DB, error) {
	return database.Connect(d.Config, log)
}

// Terminate stops the container and removes its network
func (d *Database) Terminate(ctx context.Context, log *logrus.Entry) {
	if d.Container != nil {
		if err := d.Container.Terminate(ctx); err != nil {
			log.WithError(err).Warn("failed to terminate database container")
		}
	}
	if d.Network != nil {
		if err := d.Network.Remove(ctx); err != nil {
			log.WithError(err).Warn("failed to remove network")
		}
	}
}

// waitReady pings until the server accepts the application user. A
// listening port comes up before the init scripts have created the user.
func waitReady(ctx context.Context, cfg *config.Config, log *logrus.Entry) error {
	var lastErr error
	for i := 0; i < 30; i++ {
		gdb, err := database.Connect(cfg, log)
		if err == nil {
			sqlDB, _ := gdb.DB()
			err = sqlDB.PingContext(ctx)
			_ = database.Close(gdb)
			if err == nil {
				return nil
			}
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database not ready after 30 seconds: %w", lastErr)
}

func initEnv(opts Options) map[string]string {
	if opts.Type == "postgres" {
		return map[string]string{
			"POSTGRES_PASSWORD": opts.Password,
			"POSTGRES_USER":     opts.User,
			"POSTGRES_DB":       opts.Database,
		}
	}
	return map[string]string{
		"MYSQL_ROOT_PASSWORD": opts.RootPassword,
		"MYSQL_DATABASE":      opts.Database,
		"MYSQL_USER":          opts.User,
		"MYSQL_PASSWORD":      opts.Password,
	}
}

func defaultImage(dbType string) string {
	if dbType == "postgres" {
		return "postgres:17-alpine"
	}
	return "mariadb:11.4"
}

func defaultPort(dbType string) string {
	if dbType == "postgres" {
		return "5432"
	}
	return "3306"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
