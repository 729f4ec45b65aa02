//go:generate mockgen -source=../sheet_mirror.go    -destination=./mock_sheet_mirror.go    -package=mocks
//go:generate mockgen -source=../local_store.go     -destination=./mock_local_store.go     -package=mocks
//go:generate mockgen -source=../event_publisher.go -destination=./mock_event_publisher.go -package=mocks
//go:generate mockgen -source=../core_service.go    -destination=./mock_core_service.go    -package=mocks
//go:generate mockgen -source=../logger.go          -destination=./mock_logger.go          -package=mocks

package mocks
