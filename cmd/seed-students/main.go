package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gradsys/gradtrack-backend/internal/config"
	"github.com/gradsys/gradtrack-backend/internal/database"
	"github.com/gradsys/gradtrack-backend/internal/logger"
	"github.com/gradsys/gradtrack-backend/internal/model"
	"github.com/gradsys/gradtrack-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedTeacherPhone = "13800000000"
	seedClassName    = "Computer Science 2026-1"
	seedPassword     = "gradtrack"
	seedCount        = 50
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	teacherRepo := repository.NewTeacherRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)

	fmt.Printf("=== Seeding demo class with %d students ===\n", seedCount)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash seed password")
	}

	// Teacher
	teacher, err := teacherRepo.GetByPhone(ctx, seedTeacherPhone)
	if err != nil {
		if err != pgx.ErrNoRows {
			log.Fatal().Err(err).Msg("Failed to check existing teacher")
		}
		teacher = &model.Teacher{
			Username:     "Demo Teacher",
			Phone:        seedTeacherPhone,
			PasswordHash: string(hash),
		}
		if err := teacherRepo.Create(ctx, teacher); err != nil {
			log.Fatal().Err(err).Msg("Failed to create teacher")
		}
		fmt.Printf("Created teacher with ID: %d\n", teacher.ID)
	} else {
		fmt.Printf("Found existing teacher with ID: %d\n", teacher.ID)
	}

	// Class
	var classID int
	err = pool.QueryRow(ctx, "SELECT id FROM classes WHERE name = $1 AND teacher_id = $2", seedClassName, teacher.ID).Scan(&classID)
	if err != nil {
		if err != pgx.ErrNoRows {
			log.Fatal().Err(err).Msg("Failed to check existing class")
		}
		class := &model.Class{Name: seedClassName, TeacherID: teacher.ID}
		if err := classRepo.Create(ctx, class); err != nil {
			log.Fatal().Err(err).Msg("Failed to create class")
		}
		classID = class.ID
		fmt.Printf("Created class with ID: %d\n", classID)
	} else {
		fmt.Printf("Found existing class with ID: %d\n", classID)
	}

	names := []string{
		"Wang Wei", "Li Na", "Zhang Min", "Liu Yang", "Chen Jing",
		"Yang Lei", "Zhao Xin", "Huang Qiang", "Zhou Fang", "Wu Hao",
		"Xu Jie", "Sun Li", "Zhu Peng", "Hu Yan", "Guo Tao",
		"Lin Mei", "He Jun", "Gao Ying", "Luo Bin", "Zheng Hui",
		"Liang Chao", "Xie Dan", "Song Kai", "Tang Yu", "Han Xue",
		"Feng Rui", "Cao Lu", "Deng Fei", "Xiao Qing", "Cheng Bo",
		"Cai Wen", "Pan Ting", "Tian Long", "Dong Juan", "Yuan Ming",
		"Fan Xia", "Jiang Ping", "Shi Gang", "Yao Lan", "Tan Zhi",
		"Lu Hong", "Wei Shan", "Jin Cheng", "Qin Yue", "Jia Nan",
		"Shen Tong", "Yan Fen", "Duan Ke", "Hou Sheng", "Bai Ling",
	}

	successCount := 0
	for i := 0; i < seedCount; i++ {
		student := &model.Student{
			StudentNo:    fmt.Sprintf("2026%04d", i+1),
			Username:     names[i],
			Phone:        fmt.Sprintf("139%08d", i+1),
			PasswordHash: string(hash),
			ClassID:      classID,
		}

		if err := studentRepo.Create(ctx, student); err != nil {
			log.Warn().Err(err).Str("student_no", student.StudentNo).Msg("Skipping student")
			continue
		}
		successCount++
	}

	fmt.Printf("Done. Seeded %d/%d students (password %q).\n", successCount, seedCount, seedPassword)
}
