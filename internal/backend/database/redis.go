package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix       = "eduboard:"
	redisStudentSeqKey   = redisKeyPrefix + "students:seq"
	redisStudentIndexKey = redisKeyPrefix + "students"
	redisVectorLogKey    = redisKeyPrefix + "vectores"

	redisMaxTxRetries = 3
)

// RedisDatabase keeps students as hashes indexed by a sorted set scored by id,
// so listing returns ascending id order like the relational backend.
type RedisDatabase struct {
	client *redis.Client
}

func NewRedisDatabase(connectionString string) (DatabaseService, error) {
	options, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis connection string: %w", err)
	}
	return &RedisDatabase{client: redis.NewClient(options)}, nil
}

func studentKey(id int64) string {
	return redisKeyPrefix + "student:" + strconv.FormatInt(id, 10)
}

func studentFields(student StudentRecord) map[string]any {
	return map[string]any{
		"nombres":   student.FirstName,
		"apellidos": student.LastName,
		"edad":      student.Age,
		"notas":     strconv.FormatFloat(student.Grade, 'g', -1, 64),
		"materias":  student.Subject,
	}
}

// EnsureSchema only verifies connectivity; redis needs no table setup.
func (r *RedisDatabase) EnsureSchema(ctx context.Context) error {
	return r.Ping(ctx)
}

func (r *RedisDatabase) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisDatabase) Close() error {
	return r.client.Close()
}

func (r *RedisDatabase) InsertVectorSample(ctx context.Context, value float64) error {
	return r.client.RPush(ctx, redisVectorLogKey, strconv.FormatFloat(value, 'g', -1, 64)).Err()
}

func (r *RedisDatabase) ListVectorSamples(ctx context.Context) ([]VectorSample, error) {
	values, err := r.client.LRange(ctx, redisVectorLogKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	var samples []VectorSample
	for i, raw := range values {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vector sample at position %d: %w", i, err)
		}
		// The log is append-only, so the list position is a stable id.
		samples = append(samples, VectorSample{ID: int64(i + 1), Value: value})
	}
	return samples, nil
}

func (r *RedisDatabase) InsertStudent(ctx context.Context, student StudentRecord) (int64, error) {
	id, err := r.client.Incr(ctx, redisStudentSeqKey).Result()
	if err != nil {
		return 0, err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, studentKey(id), studentFields(student))
		pipe.ZAdd(ctx, redisStudentIndexKey, redis.Z{Score: float64(id), Member: strconv.FormatInt(id, 10)})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *RedisDatabase) ListStudents(ctx context.Context) ([]StudentRecord, error) {
	ids, err := r.client.ZRange(ctx, redisStudentIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, raw := range ids {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid student id %q in index: %w", raw, err)
			}
			cmds[i] = pipe.HGetAll(ctx, studentKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	students := make([]StudentRecord, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		student, err := parseStudentFields(ids[i], fields)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, nil
}

func parseStudentFields(rawID string, fields map[string]string) (StudentRecord, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return StudentRecord{}, fmt.Errorf("invalid student id %q: %w", rawID, err)
	}
	student := StudentRecord{
		ID:        id,
		FirstName: fields["nombres"],
		LastName:  fields["apellidos"],
		Subject:   fields["materias"],
	}
	if raw := fields["edad"]; raw != "" {
		if student.Age, err = strconv.Atoi(raw); err != nil {
			return StudentRecord{}, fmt.Errorf("invalid age for student %d: %w", id, err)
		}
	}
	if raw := fields["notas"]; raw != "" {
		if student.Grade, err = strconv.ParseFloat(raw, 64); err != nil {
			return StudentRecord{}, fmt.Errorf("invalid grade for student %d: %w", id, err)
		}
	}
	return student, nil
}

// UpdateStudent watches the student hash so a concurrent delete aborts the
// write instead of recreating a hash without an index entry.
func (r *RedisDatabase) UpdateStudent(ctx context.Context, student StudentRecord) error {
	key := studentKey(student.ID)
	update := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, studentFields(student))
			return nil
		})
		return err
	}

	for i := 0; i < redisMaxTxRetries; i++ {
		err := r.client.Watch(ctx, update, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("update of student %d kept conflicting after %d attempts", student.ID, redisMaxTxRetries)
}

func (r *RedisDatabase) DeleteStudent(ctx context.Context, id int64) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, studentKey(id))
		pipe.ZRem(ctx, redisStudentIndexKey, strconv.FormatInt(id, 10))
		return nil
	})
	return err
}
