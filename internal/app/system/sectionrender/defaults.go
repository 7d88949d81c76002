package sectionrender

import "github.com/dalemusser/stratacourse/internal/domain/sections"

const (
	defaultCurriculumTitle    = "Bạn sẽ học những gì?"
	defaultCurriculumSubtitle = "Chương trình được thiết kế bài bản, đi từ cơ bản đến nâng cao, tập trung vào thực chiến."
)

// defaultModules is shown when a curriculum section has no items field.
var defaultModules = []sections.Module{
	{
		Title:       "Module 1: Nền tảng & Tư duy",
		Description: "Xây dựng tư duy lập trình đúng đắn và nắm vững kiến thức cốt lõi.",
		Lessons: []string{
			"Tư duy lập trình hiện đại",
			"Cấu trúc dữ liệu & Giải thuật ứng dụng",
			"Clean Code & Best Practices",
			"Git & Quy trình làm việc nhóm",
		},
	},
	{
		Title:       "Module 2: Frontend Chuyên sâu",
		Description: "Thành thạo xây dựng giao diện người dùng hiện đại, responsive.",
		Lessons: []string{
			"ReactJS: Hooks, Context, State Management",
			"Next.js 14: App Router & Server Components",
			"Tailwind CSS & UI Libraries",
			"Performance Optimization",
		},
	},
	{
		Title:       "Module 3: Backend & Database",
		Description: "Xây dựng API mạnh mẽ, bảo mật và thiết kế cơ sở dữ liệu.",
		Lessons: []string{
			"Node.js & Express/NestJS",
			"PostgreSQL & Prisma ORM",
			"Authentication & Authorization (JWT)",
			"Deploy & DevOps cơ bản",
		},
	},
	{
		Title:       "Module 4: Dự án thực tế",
		Description: "Áp dụng kiến thức xây dựng sản phẩm hoàn chỉnh.",
		Lessons: []string{
			"Phân tích yêu cầu & Thiết kế hệ thống",
			"Triển khai dự án MVP",
			"Testing & Debugging",
			"Bảo vệ đồ án tốt nghiệp",
		},
	},
}

func withCurriculumDefaults(c sections.Curriculum) sections.Curriculum {
	if c.Title == "" {
		c.Title = defaultCurriculumTitle
	}
	if c.Subtitle == "" {
		c.Subtitle = defaultCurriculumSubtitle
	}
	if c.Items == nil {
		c.Items = defaultModules
	}
	return c
}
