package seed

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// 初回起動時に入れる商品
var StarterProducts = []model.Product{
	{
		Name:        "Vintage Denim Jacket",
		Price:       decimal.NewFromInt(85),
		Image:       "https://images.unsplash.com/photo-1576995853123-5a10305d93c0?w=800&q=80",
		Description: "Authentic 90s denim jacket with fleece lining. Perfect condition.",
	},
	{
		Name:        "Retro Floral Dress",
		Price:       decimal.NewFromInt(65),
		Image:       "https://images.unsplash.com/photo-1572804013309-59a88b7e92f1?w=800&q=80",
		Description: "Beautiful floral pattern dress, midi length. 70s style.",
	},
	{
		Name:        "Leather Messenger Bag",
		Price:       decimal.NewFromInt(120),
		Image:       "https://images.unsplash.com/photo-1551214012-84f95e060dee?w=800&q=80",
		Description: "Handcrafted leather bag, perfect for daily use.",
	},
	{
		Name:        "Oversized Wool Sweater",
		Price:       decimal.NewFromInt(55),
		Image:       "https://images.unsplash.com/photo-1576566588028-4147f3842f27?w=800&q=80",
		Description: "Cozy beige wool sweater, oversized fit.",
	},
}

type Seeder struct {
	users    repository.UserRepository
	products repository.ProductRepository
	hasher   auth.PasswordHasher
	log      logrus.FieldLogger
}

func NewSeeder(
	users repository.UserRepository,
	products repository.ProductRepository,
	hasher auth.PasswordHasher,
	log logrus.FieldLogger,
) *Seeder {
	return &Seeder{users: users, products: products, hasher: hasher, log: log}
}

// 管理者がいなければ作り、カタログが空なら初期商品を入れる。
func (s *Seeder) Run(ctx context.Context, adminEmail, adminPassword string) error {
	if err := s.seedAdmin(ctx, adminEmail, adminPassword); err != nil {
		return err
	}
	return s.seedProducts(ctx)
}

func (s *Seeder) seedAdmin(ctx context.Context, email, password string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	s.log.WithField("email", email).Info("seeding admin user")
	err = s.users.Create(ctx, &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	//別インスタンスが先に作った
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	return err
}

func (s *Seeder) seedProducts(ctx context.Context) error {
	n, err := s.products.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	s.log.WithField("count", len(StarterProducts)).Info("seeding products")
	for _, p := range StarterProducts {
		if _, err := s.products.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
